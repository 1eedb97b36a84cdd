package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"ladder-api/models"
	"ladder-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementStatus is the tagged outcome of a settlement attempt. A
// duplicate attempt is an expected race, not an error.
type SettlementStatus int

const (
	StatusSettled SettlementStatus = iota
	StatusAlreadySettled
)

// errAlreadySettled travels out of the transaction closure (forcing the
// rollback) and is translated to StatusAlreadySettled by Settle.
var errAlreadySettled = errors.New("game already settled")

type SettlementService struct {
	db *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{
		db: db,
	}
}

// Settle applies a reconciled outcome to every participant's matchmaking
// rating in one transaction. Invoked only for non-disputed matchmaking games
// whose every human slot resolved to a win or a loss.
//
// Rating rows are locked in ascending user-ID order; every code path that
// locks more than one rating row must use the same order or settlements
// sharing participants can deadlock. The audit insert is the serialization
// point: its (user_id, game_id) primary key makes a concurrent duplicate
// settlement fail with a uniqueness violation, which is treated as a
// successful no-op rather than pre-checked (a pre-check leaves a race
// window that participant locking alone does not close).
func (s *SettlementService) Settle(game *models.Game, reconciled *models.ReconciledGame) (SettlementStatus, error) {
	outcomes := make(map[uint]models.ReconciledResult, len(reconciled.Results))
	userIDs := make([]uint, 0, len(reconciled.Results))
	var wins, losses int
	for userID, pr := range reconciled.Results {
		if pr.Result != models.ResultWin && pr.Result != models.ResultLoss {
			return 0, fmt.Errorf("cannot settle game %s: user %d has result %q", game.ID, userID, pr.Result)
		}
		if pr.Result == models.ResultWin {
			wins++
		} else {
			losses++
		}
		outcomes[userID] = pr.Result
		userIDs = append(userIDs, userID)
	}
	// Elo is relative: with nobody on the other side of the result the
	// rating math degenerates (division by an empty opposing side).
	if wins == 0 || losses == 0 {
		return 0, fmt.Errorf("cannot settle game %s: %d wins and %d losses", game.ID, wins, losses)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id IN ? AND matchmaking_type = ?", userIDs, game.MatchmakingType).
			Order("user_id ASC")
		if tx.Dialector.Name() == "postgres" {
			// sqlite has no row locks; its single-writer lock covers tests.
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var ratings []models.MatchmakingRating
		if err := query.Find(&ratings).Error; err != nil {
			return err
		}
		if len(ratings) != len(userIDs) {
			return fmt.Errorf("%w: game %s expected %d rows, found %d",
				ErrMissingRating, game.ID, len(userIDs), len(ratings))
		}

		changes := utils.ComputeRatingChanges(game.ID, now, ratings, outcomes)

		for _, userID := range userIDs {
			change := changes[userID]
			if err := tx.Create(&change).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errAlreadySettled
				}
				return err
			}
		}

		for i := range ratings {
			rating := &ratings[i]
			utils.ApplyRatingChange(rating, changes[rating.UserID], now)
			err := tx.Model(&models.MatchmakingRating{}).
				Where("user_id = ? AND matchmaking_type = ?", rating.UserID, rating.MatchmakingType).
				Updates(map[string]interface{}{
					"rating":            rating.Rating,
					"k_factor":          rating.KFactor,
					"uncertainty":       rating.Uncertainty,
					"unexpected_streak": rating.UnexpectedStreak,
					"num_games_played":  rating.NumGamesPlayed,
					"wins":              rating.Wins,
					"losses":            rating.Losses,
					"last_played_date":  rating.LastPlayedDate,
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})

	if errors.Is(err, errAlreadySettled) {
		log.Printf("Game %s already settled by another request", game.ID)
		return StatusAlreadySettled, nil
	}
	if err != nil {
		return 0, err
	}
	return StatusSettled, nil
}

// EnsureRating creates the default rating row for a user+type if missing.
// Called when a user queues for matchmaking so settlement never hits the
// missing-row invariant in normal operation.
func (s *SettlementService) EnsureRating(userID uint, matchmakingType string) (*models.MatchmakingRating, error) {
	rating := models.NewDefaultRating(userID, matchmakingType)
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rating).Error
	if err != nil {
		return nil, err
	}
	err = s.db.Where("user_id = ? AND matchmaking_type = ?", userID, matchmakingType).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}
