package services

import (
	"ladder-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

// RecordOutcome increments the (selected race, assigned race, outcome)
// counter bucket for a user. Best-effort descriptive stats: runs outside the
// settlement transaction and a failure is logged by the caller, never fatal.
func (s *StatsService) RecordOutcome(userID uint, selectedRace, assignedRace string, outcome models.ReconciledResult) error {
	counter := models.UserStatsCounter{
		UserID:       userID,
		SelectedRace: selectedRace,
		AssignedRace: assignedRace,
		Outcome:      string(outcome),
		Count:        1,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "selected_race"},
			{Name: "assigned_race"},
			{Name: "outcome"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("user_stats_counters.count + 1"),
		}),
	}).Create(&counter).Error
}

// GetUserStats returns every counter bucket recorded for a user.
func (s *StatsService) GetUserStats(userID uint) (*models.UserStatsResponse, error) {
	var counters []models.UserStatsCounter
	err := s.db.Where("user_id = ?", userID).
		Order("selected_race ASC, assigned_race ASC, outcome ASC").
		Find(&counters).Error
	if err != nil {
		return nil, err
	}
	return &models.UserStatsResponse{UserID: userID, Counters: counters}, nil
}
