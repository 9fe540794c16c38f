package service

import (
	"context"
	"fmt"
	"log"

	"anoa.com/playstats/internal/model"
	statsDto "anoa.com/playstats/internal/modules/stats/dto"
	statsRepo "anoa.com/playstats/internal/modules/stats/repository"
	"anoa.com/playstats/pkg/apperror"
)

// Provider supplies the stats document served by the endpoint.
type Provider interface {
	GetStats(ctx context.Context) (*statsDto.StatsDocument, error)
}

type staticProvider struct {
	doc *statsDto.StatsDocument
}

// NewStaticProvider serves a fixed document. A nil doc means the built-in default.
func NewStaticProvider(doc *statsDto.StatsDocument) Provider {
	if doc == nil {
		doc = statsDto.DefaultDocument()
	}
	return &staticProvider{doc: doc.Clone()}
}

func (p *staticProvider) GetStats(ctx context.Context) (*statsDto.StatsDocument, error) {
	return p.doc.Clone(), nil
}

type repositoryProvider struct {
	repo      statsRepo.StatsRepository
	inviteURL string
	limit     int
}

// NewRepositoryProvider reads totals and the top players from storage.
func NewRepositoryProvider(repo statsRepo.StatsRepository, inviteURL string, limit int) Provider {
	if limit < 1 {
		limit = 10
	}
	return &repositoryProvider{
		repo:      repo,
		inviteURL: inviteURL,
		limit:     limit,
	}
}

func (p *repositoryProvider) GetStats(ctx context.Context) (*statsDto.StatsDocument, error) {
	total, err := p.repo.GetTotalPlays(ctx)
	if err != nil {
		log.Printf("Failed to read total plays: %v", err)
		return nil, fmt.Errorf("%w: %v", apperror.ErrServiceUnavailable, err)
	}

	players, err := p.repo.GetTopPlayers(ctx, p.limit)
	if err != nil {
		log.Printf("Failed to read top players: %v", err)
		return nil, fmt.Errorf("%w: %v", apperror.ErrServiceUnavailable, err)
	}

	return &statsDto.StatsDocument{
		TotalPlays: total,
		TopUsers:   toTopUsers(players),
		InviteURL:  p.inviteURL,
	}, nil
}

func toTopUsers(players []model.PlayerStats) []statsDto.TopUser {
	users := make([]statsDto.TopUser, 0, len(players))
	for _, p := range players {
		users = append(users, statsDto.TopUser{
			Name:  p.DisplayName,
			Plays: p.Plays,
		})
	}
	return users
}
