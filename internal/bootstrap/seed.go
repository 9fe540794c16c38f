package bootstrap

import (
	"context"
	"log"

	"anoa.com/playstats/internal/model"
	statsDto "anoa.com/playstats/internal/modules/stats/dto"
	statsRepo "anoa.com/playstats/internal/modules/stats/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.PlayerStats{},
		&model.Counter{},
	)
}

// SeedStats fills empty storage from doc so a fresh database serves the same
// document as the static source. Existing data is left alone.
func SeedStats(ctx context.Context, repo statsRepo.StatsRepository, doc *statsDto.StatsDocument) error {
	count, err := repo.CountPlayers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Stats already present, skipping seed")
		return nil
	}

	players := SeedPlayers(doc)
	if err := repo.Seed(ctx, doc.TotalPlays, players); err != nil {
		return err
	}

	log.Printf("✅ Seeded %d players with %d total plays", len(players), doc.TotalPlays)
	return nil
}

// SeedPlayers derives stable user ids from display names.
func SeedPlayers(doc *statsDto.StatsDocument) []model.PlayerStats {
	players := make([]model.PlayerStats, 0, len(doc.TopUsers))
	for _, u := range doc.TopUsers {
		players = append(players, model.PlayerStats{
			UserID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte("seed:"+u.Name)).String(),
			DisplayName: u.Name,
			Plays:       u.Plays,
		})
	}
	return players
}
