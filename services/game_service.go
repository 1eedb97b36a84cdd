package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"ladder-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GameService struct {
	db                *gorm.DB
	settlementService *SettlementService
}

func NewGameService(db *gorm.DB, settlementService *SettlementService) *GameService {
	return &GameService{
		db:                db,
		settlementService: settlementService,
	}
}

// CreateGame registers a match at launch time. The record is immutable from
// then on: this engine only ever reads it back. Each human slot gets a
// secret result code, handed to the client out-of-band, and matchmaking
// games get a default rating row per participant so settlement never sees a
// missing one.
func (s *GameService) CreateGame(req models.CreateGameRequest) (*models.CreateGameResponse, error) {
	if req.GameSource == models.GameSourceMatchmaking && req.MatchmakingType == "" {
		return nil, errors.New("matchmaking games require a matchmaking type")
	}

	game := models.Game{
		ID:              uuid.NewString(),
		MapName:         req.MapName,
		GameType:        req.GameType,
		GameSource:      req.GameSource,
		MatchmakingType: req.MatchmakingType,
		Status:          models.GameStatusLaunching,
		StartTime:       time.Now(),
	}

	resultCodes := make(map[uint]string)
	slotIndex := 0
	for teamID, team := range req.Teams {
		for _, slot := range team {
			player := models.GamePlayer{
				GameID:       game.ID,
				TeamID:       teamID,
				SlotIndex:    slotIndex,
				SelectedRace: slot.Race,
				AssignedRace: resolveRace(slot.Race),
				IsComputer:   slot.IsComputer,
			}
			slotIndex++
			if slot.IsComputer {
				// Rated games are strictly human-vs-human; a computer
				// slot would leave the rating math without an opposing
				// side to settle against.
				if req.GameSource == models.GameSourceMatchmaking {
					return nil, errors.New("matchmaking games cannot contain computer slots")
				}
			} else {
				if slot.UserID == 0 {
					return nil, errors.New("human slots require a user id")
				}
				player.UserID = slot.UserID
				player.ResultCode = uuid.NewString()
				resultCodes[slot.UserID] = player.ResultCode
			}
			game.Players = append(game.Players, player)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&game).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if game.GameSource == models.GameSourceMatchmaking {
		for _, p := range game.Players {
			if !p.IsHuman() {
				continue
			}
			if _, err := s.settlementService.EnsureRating(p.UserID, game.MatchmakingType); err != nil {
				return nil, fmt.Errorf("failed to ensure rating for user %d: %w", p.UserID, err)
			}
		}
	}

	return &models.CreateGameResponse{Game: game, ResultCodes: resultCodes}, nil
}

// resolveRace picks the actually-assigned race for a random selection.
func resolveRace(selected string) string {
	if selected != models.RaceRandom {
		return selected
	}
	races := []string{models.RaceProtoss, models.RaceTerran, models.RaceZerg}
	return races[rand.Intn(len(races))]
}

func (s *GameService) GetGame(gameID string) (*models.Game, error) {
	var game models.Game
	err := s.db.Preload("Players").Preload("Players.User").First(&game, "id = ?", gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// statusRank orders the game lifecycle. Status only ever moves forward.
var statusRank = map[string]int{
	models.GameStatusLaunching:  0,
	models.GameStatusPlaying:    1,
	models.GameStatusHasResult:  2,
	models.GameStatusResultSent: 3,
	models.GameStatusFinished:   4,
	models.GameStatusError:      5,
}

// UpdateStatus advances the game through its lifecycle. Entering playing
// requires the game to still be launching; every other transition just has
// to move forward. Violations are conflicts, not server errors.
func (s *GameService) UpdateStatus(gameID string, status string) (*models.Game, error) {
	var game models.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		if status == models.GameStatusPlaying && game.Status != models.GameStatusLaunching {
			return ErrInvalidStatusTransition
		}
		if statusRank[status] <= statusRank[game.Status] && status != models.GameStatusError {
			return ErrInvalidStatusTransition
		}
		if game.Status == models.GameStatusFinished || game.Status == models.GameStatusError {
			return ErrInvalidStatusTransition
		}

		game.Status = status
		return tx.Model(&models.Game{}).Where("id = ?", gameID).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}
