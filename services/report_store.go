package services

import (
	"errors"
	"time"

	"ladder-api/models"

	"gorm.io/gorm"
)

type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{
		db: db,
	}
}

// SubmitReport validates the reporter's membership and secret result code,
// then persists the report and marks the membership as reported. The result
// code check is the only admission control on reports: the reporting client
// is otherwise anonymous to this subsystem.
//
// Returns ErrGameNotFound when no membership matches (unknown game, unknown
// user, or wrong code) and ErrAlreadyReported on a duplicate submission.
func (s *ReportStore) SubmitReport(gameID string, userID uint, resultCode string, timeMs int64, results models.PlayerResultsMap) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var membership models.GamePlayer
		err := tx.Where("game_id = ? AND user_id = ? AND result_code = ?", gameID, userID, resultCode).
			First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		if membership.ReportedResults {
			return ErrAlreadyReported
		}

		report := models.ReportedResult{
			GameID:     gameID,
			ReporterID: userID,
			TimeMs:     timeMs,
			Results:    results,
		}
		if err := tx.Create(&report).Error; err != nil {
			// The reported_results flag is checked above, but two
			// simultaneous submissions can both pass it; the primary key
			// on (game_id, reporter_id) settles the race.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReported
			}
			return err
		}

		now := time.Now()
		return tx.Model(&models.GamePlayer{}).
			Where("game_id = ? AND user_id = ?", gameID, userID).
			Updates(map[string]interface{}{
				"reported_results": true,
				"reported_at":      now,
			}).Error
	})
}

// AllReports returns every report currently stored for the game. No side
// effects.
func (s *ReportStore) AllReports(gameID string) ([]models.ReportedResult, error) {
	var reports []models.ReportedResult
	if err := s.db.Where("game_id = ?", gameID).Order("created_at ASC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
