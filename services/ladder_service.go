package services

import (
	"errors"

	"ladder-api/models"

	"gorm.io/gorm"
)

// LadderService is the read side of the rating engine: rankings and the
// audit history of rating changes.
type LadderService struct {
	db *gorm.DB
}

func NewLadderService(db *gorm.DB) *LadderService {
	return &LadderService{
		db: db,
	}
}

func (s *LadderService) GetLadder(matchmakingType string, limit int) (*models.LadderResponse, error) {
	var ratings []models.MatchmakingRating
	err := s.db.Where("matchmaking_type = ? AND num_games_played > 0", matchmakingType).
		Order("rating DESC").
		Limit(limit).
		Preload("User").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	resp := &models.LadderResponse{
		MatchmakingType: matchmakingType,
		Entries:         make([]models.LadderEntry, 0, len(ratings)),
	}
	for i, rating := range ratings {
		resp.Entries = append(resp.Entries, models.LadderEntry{Rank: i + 1, Rating: rating})
	}
	return resp, nil
}

func (s *LadderService) GetRating(userID uint, matchmakingType string) (*models.MatchmakingRating, error) {
	var rating models.MatchmakingRating
	err := s.db.Where("user_id = ? AND matchmaking_type = ?", userID, matchmakingType).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (s *LadderService) GetRecentRatingChanges(userID uint, limit int) ([]models.MatchmakingRatingChange, error) {
	var changes []models.MatchmakingRatingChange
	err := s.db.Where("user_id = ?", userID).
		Order("change_time DESC").
		Limit(limit).
		Find(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}
