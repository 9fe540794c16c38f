package repository

import (
	"context"
	"testing"

	"anoa.com/playstats/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) (StatsRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.PlayerStats{}, &model.Counter{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStatsRepository(db), db
}

func TestCleanName(t *testing.T) {
	r := NewStatsRepository(nil).(*statsRepository)

	cases := map[string]string{
		"KEX":                            "KEX",
		"  Alex  ":                       "Alex",
		"<b>Bold</b> <script>x</script>": "Bold",
		"Tom & Jerry":                    "Tom & Jerry",
		"<img src=x onerror=alert(1)>":   "",
	}
	for in, want := range cases {
		if got := r.cleanName(in); got != want {
			t.Fatalf("cleanName(%q)=%q want %q", in, got, want)
		}
	}
}

func TestGetTotalPlays_EmptyStorage(t *testing.T) {
	repo, _ := newTestRepository(t)

	total, err := repo.GetTotalPlays(context.Background())
	if err != nil {
		t.Fatalf("GetTotalPlays: %v", err)
	}
	if total != 0 {
		t.Fatalf("total=%d want 0", total)
	}
}

func TestRecordPlay_UpdatesPlayerAndTotal(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.RecordPlay(ctx, "u1", "KEX"); err != nil {
			t.Fatalf("RecordPlay: %v", err)
		}
	}
	if err := repo.RecordPlay(ctx, "u2", "Alex"); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}
	// a later play carries the player's current name
	if err := repo.RecordPlay(ctx, "u1", "<i>KEX</i> the Great"); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}

	total, err := repo.GetTotalPlays(ctx)
	if err != nil {
		t.Fatalf("GetTotalPlays: %v", err)
	}
	if total != 5 {
		t.Fatalf("total=%d want 5", total)
	}

	var u1 model.PlayerStats
	if err := db.First(&u1, "user_id = ?", "u1").Error; err != nil {
		t.Fatalf("load u1: %v", err)
	}
	if u1.Plays != 4 || u1.DisplayName != "KEX the Great" {
		t.Fatalf("u1=%+v", u1)
	}
	if u1.LastPlayedAt.IsZero() {
		t.Fatalf("u1 LastPlayedAt not set")
	}

	count, err := repo.CountPlayers(ctx)
	if err != nil {
		t.Fatalf("CountPlayers: %v", err)
	}
	if count != 2 {
		t.Fatalf("players=%d want 2", count)
	}
}

func TestRecordPlay_EmptyNameFallsBackToUserID(t *testing.T) {
	repo, db := newTestRepository(t)

	if err := repo.RecordPlay(context.Background(), "u9", "<script>x</script>"); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}

	var p model.PlayerStats
	if err := db.First(&p, "user_id = ?", "u9").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.DisplayName != "u9" || p.Plays != 1 {
		t.Fatalf("player=%+v", p)
	}
}

func TestGetTopPlayers_OrderAndLimit(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	plays := []struct {
		id, name string
		n        int
	}{
		{"u1", "Cara", 1},
		{"u2", "Bea", 3},
		{"u3", "Al", 3},
		{"u4", "Dan", 5},
	}
	for _, p := range plays {
		for i := 0; i < p.n; i++ {
			if err := repo.RecordPlay(ctx, p.id, p.name); err != nil {
				t.Fatalf("RecordPlay: %v", err)
			}
		}
	}

	top, err := repo.GetTopPlayers(ctx, 3)
	if err != nil {
		t.Fatalf("GetTopPlayers: %v", err)
	}
	want := []struct {
		name  string
		plays int64
	}{{"Dan", 5}, {"Al", 3}, {"Bea", 3}}
	if len(top) != len(want) {
		t.Fatalf("len=%d want %d: %+v", len(top), len(want), top)
	}
	for i, w := range want {
		if top[i].DisplayName != w.name || top[i].Plays != w.plays {
			t.Fatalf("top[%d]=%s/%d want %s/%d", i, top[i].DisplayName, top[i].Plays, w.name, w.plays)
		}
	}
}

func TestSeed_SecondCallChangesNothing(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	first := []model.PlayerStats{
		{UserID: "s1", DisplayName: "KEX", Plays: 124},
		{UserID: "s2", DisplayName: "Alex", Plays: 97},
	}
	if err := repo.Seed(ctx, 18342, first); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	again := []model.PlayerStats{
		{UserID: "s1", DisplayName: "Renamed", Plays: 1},
		{UserID: "s2", DisplayName: "Alex", Plays: 1},
	}
	if err := repo.Seed(ctx, 1, again); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	total, err := repo.GetTotalPlays(ctx)
	if err != nil {
		t.Fatalf("GetTotalPlays: %v", err)
	}
	if total != 18342 {
		t.Fatalf("total=%d want 18342", total)
	}

	var rows []model.PlayerStats
	if err := db.Order("user_id").Find(&rows).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d want 2", len(rows))
	}
	if rows[0].DisplayName != "KEX" || rows[0].Plays != 124 || rows[1].Plays != 97 {
		t.Fatalf("rows=%+v", rows)
	}
}

func TestSeed_LeavesInputUntouched(t *testing.T) {
	repo, db := newTestRepository(t)

	players := []model.PlayerStats{{UserID: "s1", DisplayName: "<b>KEX</b>", Plays: 124}}
	if err := repo.Seed(context.Background(), 124, players); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if players[0].DisplayName != "<b>KEX</b>" {
		t.Fatalf("input rewritten to %q", players[0].DisplayName)
	}

	var stored model.PlayerStats
	if err := db.First(&stored, "user_id = ?", "s1").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.DisplayName != "KEX" {
		t.Fatalf("stored name=%q want KEX", stored.DisplayName)
	}
}
