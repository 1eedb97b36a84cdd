package services

import (
	"log"
	"time"

	"ladder-api/models"
	"ladder-api/utils"

	"gorm.io/gorm"
)

// ResultService accepts result reports and opportunistically drives
// reconciliation and settlement. The report submitter gets an answer about
// their own report only; whether the game as a whole settles is never their
// problem, so the reconciliation attempt runs on its own goroutine with its
// own error boundary.
type ResultService struct {
	db                *gorm.DB
	reportStore       *ReportStore
	settlementService *SettlementService
	statsService      *StatsService
	policy            utils.CompletionPolicy
	reconcileOpts     utils.ReconcileOptions
}

func NewResultService(db *gorm.DB, reportStore *ReportStore, settlementService *SettlementService, statsService *StatsService) *ResultService {
	return &ResultService{
		db:                db,
		reportStore:       reportStore,
		settlementService: settlementService,
		statsService:      statsService,
		policy:            utils.UnambiguousOutcomePolicy{},
		reconcileOpts:     utils.DefaultReconcileOptions(),
	}
}

// SetCompletionPolicy swaps the quorum policy deciding when the reports on
// hand suffice.
func (s *ResultService) SetCompletionPolicy(policy utils.CompletionPolicy) {
	s.policy = policy
}

// SubmitReport stores one client's report and kicks off a background
// reconciliation attempt. The caller's response depends only on whether the
// report itself was accepted.
func (s *ResultService) SubmitReport(gameID string, req models.SubmitResultRequest) error {
	err := s.reportStore.SubmitReport(gameID, req.UserID, req.ResultCode, req.Time, req.ResultsMap())
	if err != nil {
		return err
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic during reconciliation of game %s: %v", gameID, r)
			}
		}()
		if err := s.AttemptReconciliation(gameID); err != nil {
			// Never surfaced to the submitter; the next report or the
			// sweep retries naturally.
			log.Printf("Reconciliation attempt for game %s failed: %v", gameID, err)
		}
	}()

	return nil
}

// AttemptReconciliation re-reads every report for the game and, if the
// completion policy is satisfied, reconciles, settles (matchmaking games)
// and records stats. Safe to call concurrently for the same game: duplicate
// settlement collapses on the audit primary key and game finalization is a
// guarded single-winner update.
func (s *ResultService) AttemptReconciliation(gameID string) error {
	var game models.Game
	if err := s.db.Preload("Players").First(&game, "id = ?", gameID).Error; err != nil {
		return err
	}
	if game.Status == models.GameStatusFinished || game.Status == models.GameStatusError {
		return nil
	}

	reports, err := s.reportStore.AllReports(gameID)
	if err != nil {
		return err
	}
	if !s.policy.IsComplete(&game, reports) {
		return nil
	}

	reconciled := utils.ReconcileResults(&game, reports, s.reconcileOpts)

	if !reconciled.Disputed && game.GameSource == models.GameSourceMatchmaking && reconciled.Rateable() {
		if _, err := s.settlementService.Settle(&game, &reconciled); err != nil {
			// Left unfinished on purpose: the sweep retries settlement.
			return err
		}
	}

	finalized, err := s.finalizeGame(&game, &reconciled)
	if err != nil {
		return err
	}
	if finalized {
		s.recordStats(&game, &reconciled)
	}
	return nil
}

// finalizeGame marks the game finished exactly once. Returns whether this
// attempt was the one that did it.
func (s *ResultService) finalizeGame(game *models.Game, reconciled *models.ReconciledGame) (bool, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":         models.GameStatusFinished,
		"disputed":       reconciled.Disputed,
		"game_length_ms": reconciled.TimeMs,
		"settled_at":     now,
	}
	result := s.db.Model(&models.Game{}).
		Where("id = ? AND status NOT IN ?", game.ID, []string{models.GameStatusFinished, models.GameStatusError}).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// recordStats best-effort increments descriptive counters. Disputed games,
// UMS games and unknown slots never count; failures are logged and
// swallowed.
func (s *ResultService) recordStats(game *models.Game, reconciled *models.ReconciledGame) {
	if reconciled.Disputed || game.GameType == models.GameTypeUMS {
		return
	}
	selectedByUser := make(map[uint]string, len(game.Players))
	for _, p := range game.Players {
		if p.IsHuman() {
			selectedByUser[p.UserID] = p.SelectedRace
		}
	}
	for userID, pr := range reconciled.Results {
		if pr.Result == models.ResultUnknown {
			continue
		}
		err := s.statsService.RecordOutcome(userID, selectedByUser[userID], pr.Race, pr.Result)
		if err != nil {
			log.Printf("Failed to record stats for user %d in game %s: %v", userID, game.ID, err)
		}
	}
}

// SweepUnreconciled retries reconciliation for games that have reports but
// never finished, typically because a settlement attempt failed or a
// laggard's report never arrived but the quorum policy is now satisfied.
func (s *ResultService) SweepUnreconciled(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	var gameIDs []string
	err := s.db.Model(&models.Game{}).
		Distinct().
		Joins("JOIN reported_results ON reported_results.game_id = games.id").
		Where("games.status NOT IN ? AND games.updated_at < ?",
			[]string{models.GameStatusFinished, models.GameStatusError}, cutoff).
		Pluck("games.id", &gameIDs).Error
	if err != nil {
		return err
	}

	for _, gameID := range gameIDs {
		if err := s.AttemptReconciliation(gameID); err != nil {
			log.Printf("Sweep reconciliation for game %s failed: %v", gameID, err)
		}
	}
	return nil
}
