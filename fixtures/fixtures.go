package fixtures

import (
	"fmt"
	"log"
	"math/rand"

	"ladder-api/models"
	"ladder-api/services"

	"gorm.io/gorm"
)

type Fixtures struct {
	db *gorm.DB
}

func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{db: db}
}

// GenerateTestData creates 10 users with 1v1 ratings and plays 50 games
// through the real report/reconcile/settle pipeline, so the dev database
// ends up with audit history and stats the same way production would.
func (f *Fixtures) GenerateTestData() error {
	log.Println("Starting fixtures generation...")

	users, err := f.generateUsers(10)
	if err != nil {
		return fmt.Errorf("failed to generate users: %w", err)
	}

	if err := f.playGames(users, 50); err != nil {
		return fmt.Errorf("failed to generate games: %w", err)
	}

	log.Println("Fixtures generation completed")
	return nil
}

func (f *Fixtures) generateUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 1; i <= count; i++ {
		user := models.User{Name: fmt.Sprintf("player%02d", i)}
		if err := f.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

func (f *Fixtures) playGames(users []models.User, count int) error {
	settlementService := services.NewSettlementService(f.db)
	reportStore := services.NewReportStore(f.db)
	statsService := services.NewStatsService(f.db)
	resultService := services.NewResultService(f.db, reportStore, settlementService, statsService)
	gameService := services.NewGameService(f.db, settlementService)

	races := []string{models.RaceProtoss, models.RaceTerran, models.RaceZerg, models.RaceRandom}

	for i := 0; i < count; i++ {
		a := users[rand.Intn(len(users))]
		b := users[rand.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}

		created, err := gameService.CreateGame(models.CreateGameRequest{
			MapName:         fmt.Sprintf("Fixture Map %d", i%5+1),
			GameType:        models.GameTypeMelee,
			GameSource:      models.GameSourceMatchmaking,
			MatchmakingType: models.MatchmakingType1v1,
			Teams: [][]models.CreateGameSlotRequest{
				{{UserID: a.ID, Race: races[rand.Intn(len(races))]}},
				{{UserID: b.ID, Race: races[rand.Intn(len(races))]}},
			},
		})
		if err != nil {
			return err
		}

		winner, loser := a.ID, b.ID
		if rand.Intn(2) == 0 {
			winner, loser = loser, winner
		}
		timeMs := int64(5+rand.Intn(25)) * 60 * 1000
		results := models.PlayerResultsMap{
			winner: models.ClientResultVictory,
			loser:  models.ClientResultDefeat,
		}

		for _, userID := range []uint{a.ID, b.ID} {
			err := reportStore.SubmitReport(created.Game.ID, userID, created.ResultCodes[userID], timeMs, results)
			if err != nil {
				return err
			}
		}
		if err := resultService.AttemptReconciliation(created.Game.ID); err != nil {
			return err
		}
	}

	log.Printf("Played %d fixture games", count)
	return nil
}
