package repository

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"anoa.com/playstats/internal/model"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository interface {
	GetTotalPlays(ctx context.Context) (int64, error)
	GetTopPlayers(ctx context.Context, limit int) ([]model.PlayerStats, error)
	RecordPlay(ctx context.Context, userID, displayName string) error
	CountPlayers(ctx context.Context) (int64, error)
	Seed(ctx context.Context, total int64, players []model.PlayerStats) error
}

type statsRepository struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{
		db:        db,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (r *statsRepository) GetTotalPlays(ctx context.Context) (int64, error) {
	var counter model.Counter
	err := r.db.WithContext(ctx).Where(&model.Counter{Key: model.CounterTotalPlays}).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Value, nil
}

// GetTopPlayers orders by plays descending, ties broken by display name.
func (r *statsRepository) GetTopPlayers(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	var players []model.PlayerStats
	err := r.db.WithContext(ctx).
		Order("plays DESC").Order("display_name ASC").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// RecordPlay bumps the player's count and the global total in one transaction.
func (r *statsRepository) RecordPlay(ctx context.Context, userID, displayName string) error {
	name := r.cleanName(displayName)
	if name == "" {
		name = userID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"plays":          gorm.Expr("player_stats.plays + ?", 1),
				"display_name":   name,
				"last_played_at": time.Now(),
			}),
		}).Create(&model.PlayerStats{
			UserID:      userID,
			DisplayName: name,
			Plays:       1,
		}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value": gorm.Expr("counters.value + ?", 1),
			}),
		}).Create(&model.Counter{Key: model.CounterTotalPlays, Value: 1}).Error
	})
}

func (r *statsRepository) CountPlayers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlayerStats{}).Count(&count).Error
	return count, err
}

// Seed writes the given rows and total, skipping rows that already exist.
// The caller's slice is left untouched.
func (r *statsRepository) Seed(ctx context.Context, total int64, players []model.PlayerStats) error {
	rows := make([]model.PlayerStats, len(players))
	copy(rows, players)
	for i := range rows {
		rows[i].DisplayName = r.cleanName(rows[i].DisplayName)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Counter{Key: model.CounterTotalPlays, Value: total}).Error
	})
}

// cleanName strips markup. The policy escapes entities, which the dashboard
// would show verbatim, so they are unescaped again.
func (r *statsRepository) cleanName(name string) string {
	return strings.TrimSpace(html.UnescapeString(r.sanitizer.Sanitize(name)))
}
