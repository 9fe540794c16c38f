package dto

import "anoa.com/playstats/internal/config"

// StatsDocument is the payload served by the stats endpoint and consumed by
// the dashboard. TopUsers is in display order.
type StatsDocument struct {
	TotalPlays int64     `json:"total_plays"`
	TopUsers   []TopUser `json:"top_users"`
	InviteURL  string    `json:"invite_url"`
}

type TopUser struct {
	Name  string `json:"name"`
	Plays int64  `json:"plays"`
}

// DefaultDocument returns the built-in document served when no data source is configured.
func DefaultDocument() *StatsDocument {
	return &StatsDocument{
		TotalPlays: 18342,
		TopUsers: []TopUser{
			{Name: "KEX", Plays: 124},
			{Name: "Alex", Plays: 97},
		},
		InviteURL: config.DefaultInviteURL,
	}
}

// Clone returns a deep copy. TopUsers is never nil in the copy so it
// encodes as [] rather than null.
func (d *StatsDocument) Clone() *StatsDocument {
	users := make([]TopUser, len(d.TopUsers))
	copy(users, d.TopUsers)
	return &StatsDocument{
		TotalPlays: d.TotalPlays,
		TopUsers:   users,
		InviteURL:  d.InviteURL,
	}
}
