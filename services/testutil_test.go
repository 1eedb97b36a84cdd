package services

import (
	"testing"

	"ladder-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the same error
// translation the postgres connection uses, so duplicated-key detection
// behaves like production. Single connection: every query sees the same
// in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GamePlayer{},
		&models.ReportedResult{},
		&models.MatchmakingRating{},
		&models.MatchmakingRatingChange{},
		&models.UserStatsCounter{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Name: name}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// createMatchmaking1v1 registers a ranked 1v1 between two fresh users and
// returns the game plus the per-user result codes.
func createMatchmaking1v1(t *testing.T, db *gorm.DB) (*models.Game, map[uint]string, []models.User) {
	t.Helper()

	a := createTestUser(t, db, "alice-"+t.Name())
	b := createTestUser(t, db, "bob-"+t.Name())

	gameService := NewGameService(db, NewSettlementService(db))
	resp, err := gameService.CreateGame(models.CreateGameRequest{
		MapName:         "Lost Temple",
		GameType:        models.GameTypeMelee,
		GameSource:      models.GameSourceMatchmaking,
		MatchmakingType: models.MatchmakingType1v1,
		Teams: [][]models.CreateGameSlotRequest{
			{{UserID: a.ID, Race: models.RaceTerran}},
			{{UserID: b.ID, Race: models.RaceZerg}},
		},
	})
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	return &resp.Game, resp.ResultCodes, []models.User{a, b}
}
