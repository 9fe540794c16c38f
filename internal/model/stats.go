package model

import "time"

// PlayerStats is one row per player whose plays are counted.
type PlayerStats struct {
	UserID       string    `gorm:"primaryKey;size:64" json:"user_id"`
	DisplayName  string    `gorm:"size:100;not null" json:"display_name"`
	Plays        int64     `gorm:"not null;default:0;index:idx_player_plays,sort:desc" json:"plays"`
	LastPlayedAt time.Time `gorm:"autoUpdateTime" json:"last_played_at"`
}

// Counter holds global tallies keyed by name, e.g. "total_plays".
type Counter struct {
	Key   string `gorm:"primaryKey;size:50" json:"key"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

const CounterTotalPlays = "total_plays"
