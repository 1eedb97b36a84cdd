package utils

import (
	"ladder-api/models"
)

// DefaultMinDisconnectTimeMs is the elapsed-time floor below which a
// disconnect resolves to unknown instead of a loss. Dropping in the first
// two minutes must not hand the opponent a free rated win.
const DefaultMinDisconnectTimeMs = 2 * 60 * 1000

type ReconcileOptions struct {
	// MinDisconnectTimeMs guards against intentional early-disconnect
	// result manipulation.
	MinDisconnectTimeMs int64
}

func DefaultReconcileOptions() ReconcileOptions {
	return ReconcileOptions{MinDisconnectTimeMs: DefaultMinDisconnectTimeMs}
}

// CompletionPolicy decides whether the reports on hand are enough to
// reconcile without waiting for the remaining participants.
type CompletionPolicy interface {
	IsComplete(game *models.Game, reports []models.ReportedResult) bool
}

// AllReportedPolicy waits for a report from every human participant.
type AllReportedPolicy struct{}

func (AllReportedPolicy) IsComplete(game *models.Game, reports []models.ReportedResult) bool {
	reported := reporterSet(reports)
	for _, p := range game.Players {
		if p.IsHuman() && !reported[p.UserID] {
			return false
		}
	}
	return len(reports) > 0
}

// UnambiguousOutcomePolicy is the default policy: complete once every human
// has reported, or once the reports already on hand assign a terminal
// (non-playing) observation to every human slot. A crashed laggard whose
// fate every survivor agrees on does not hold up reconciliation.
type UnambiguousOutcomePolicy struct{}

func (UnambiguousOutcomePolicy) IsComplete(game *models.Game, reports []models.ReportedResult) bool {
	if (AllReportedPolicy{}).IsComplete(game, reports) {
		return true
	}
	if len(reports) == 0 {
		return false
	}
	for _, p := range game.Players {
		if !p.IsHuman() {
			continue
		}
		if !hasTerminalObservation(reports, p.UserID) {
			return false
		}
	}
	return true
}

// TeamQuorumPolicy accepts a report set once at least one member of every
// team has reported and every slot has a terminal observation.
type TeamQuorumPolicy struct{}

func (TeamQuorumPolicy) IsComplete(game *models.Game, reports []models.ReportedResult) bool {
	reported := reporterSet(reports)
	teamReported := make(map[int]bool)
	teams := make(map[int]bool)
	for _, p := range game.Players {
		if !p.IsHuman() {
			continue
		}
		teams[p.TeamID] = true
		if reported[p.UserID] {
			teamReported[p.TeamID] = true
		}
	}
	for teamID := range teams {
		if !teamReported[teamID] {
			return false
		}
	}
	for _, p := range game.Players {
		if p.IsHuman() && !hasTerminalObservation(reports, p.UserID) {
			return false
		}
	}
	return len(reports) > 0
}

func reporterSet(reports []models.ReportedResult) map[uint]bool {
	set := make(map[uint]bool, len(reports))
	for _, r := range reports {
		set[r.ReporterID] = true
	}
	return set
}

func hasTerminalObservation(reports []models.ReportedResult, userID uint) bool {
	for _, r := range reports {
		if res, ok := r.Results[userID]; ok && res != models.ClientResultPlaying {
			return true
		}
	}
	return false
}

// ReconcileResults merges every submitted report for a game into one
// authoritative outcome per human participant. Pure function: feed it
// literal games and reports.
//
// Merge policy: exactly one winning team is permitted. A victory claim
// survives only if no report contradicts it (marks the claimant defeated or
// disconnected), and a victory claimed only by the claimant themself needs
// every opposing report to be consistent with that claim. Any contradiction
// collapses the whole game to disputed, all slots unknown. A unanimous
// mutual concession with no victory claim at all is the one drawn outcome.
func ReconcileResults(game *models.Game, reports []models.ReportedResult, opts ReconcileOptions) models.ReconciledGame {
	humans := make(map[uint]*models.GamePlayer)
	for i := range game.Players {
		p := &game.Players[i]
		if p.IsHuman() {
			humans[p.UserID] = p
		}
	}

	var elapsed int64
	for _, r := range reports {
		if r.TimeMs > elapsed {
			elapsed = r.TimeMs
		}
	}

	victoryVoters := make(map[uint]map[uint]bool) // subject -> reporters claiming victory
	contradicted := make(map[uint]bool)           // subject has a defeat/disconnect vote
	for _, r := range reports {
		for subject, res := range r.Results {
			if _, ok := humans[subject]; !ok {
				continue
			}
			switch res {
			case models.ClientResultVictory:
				if victoryVoters[subject] == nil {
					victoryVoters[subject] = make(map[uint]bool)
				}
				victoryVoters[subject][r.ReporterID] = true
			case models.ClientResultDefeat, models.ClientResultDisconnected:
				contradicted[subject] = true
			}
		}
	}

	if len(victoryVoters) == 0 {
		// Nobody claims a win. A unanimous mutual concession is a draw;
		// anything else (playing/disconnect noise) cannot be collapsed
		// to a winner/loser pair and disputes.
		if mutualDefeat(humans, reports) {
			return drawGame(humans, elapsed)
		}
		return disputedGame(humans, elapsed)
	}

	winnerTeam, ok := findWinnerTeam(humans, reports, victoryVoters, contradicted)
	if !ok {
		return disputedGame(humans, elapsed)
	}

	results := make(map[uint]models.ReconciledPlayerResult, len(humans))
	for userID, p := range humans {
		if p.TeamID == winnerTeam {
			results[userID] = models.ReconciledPlayerResult{Race: p.AssignedRace, Result: models.ResultWin}
			continue
		}
		results[userID] = models.ReconciledPlayerResult{
			Race:   p.AssignedRace,
			Result: loserSlotResult(userID, reports, elapsed, opts),
		}
	}
	return models.ReconciledGame{Results: results, Disputed: false, TimeMs: elapsed}
}

// findWinnerTeam returns the single team whose victory claims survive the
// merge policy, or ok=false when the reports are contradictory.
func findWinnerTeam(humans map[uint]*models.GamePlayer, reports []models.ReportedResult, victoryVoters map[uint]map[uint]bool, contradicted map[uint]bool) (int, bool) {
	winnerTeam := -1
	found := false
	for subject, voters := range victoryVoters {
		if contradicted[subject] {
			// Someone reported this claimant defeated. Two competing
			// winners always land here for both claimants.
			return 0, false
		}
		if selfOnly(voters, subject) && !selfClaimCorroborated(humans, reports, subject) {
			return 0, false
		}
		team := humans[subject].TeamID
		if found && team != winnerTeam {
			return 0, false
		}
		winnerTeam = team
		found = true
	}
	return winnerTeam, found
}

func selfOnly(voters map[uint]bool, subject uint) bool {
	return len(voters) == 1 && voters[subject]
}

// selfClaimCorroborated checks an uncorroborated self-victory: every report
// from outside the claimant's team must either mark the claimant victorious
// or show defeat/disconnect for every slot outside that team. No opposing
// reports at all counts as corroborated (the quorum policy already decided
// the set is sufficient).
func selfClaimCorroborated(humans map[uint]*models.GamePlayer, reports []models.ReportedResult, subject uint) bool {
	claimTeam := humans[subject].TeamID
	for _, r := range reports {
		reporter, ok := humans[r.ReporterID]
		if !ok || reporter.TeamID == claimTeam {
			continue
		}
		if r.Results[subject] == models.ClientResultVictory {
			continue
		}
		for userID, p := range humans {
			if p.TeamID == claimTeam {
				continue
			}
			res := r.Results[userID]
			if res != models.ClientResultDefeat && res != models.ClientResultDisconnected {
				return false
			}
		}
	}
	return true
}

// loserSlotResult resolves a slot on a losing team. A player's own report of
// defeat is authoritative; a disconnect only counts as a loss past the
// minimum elapsed time; opponent claims alone leave the slot unknown.
func loserSlotResult(userID uint, reports []models.ReportedResult, elapsed int64, opts ReconcileOptions) models.ReconciledResult {
	var selfResult models.GameClientResult
	sawDisconnect := false
	for _, r := range reports {
		res, ok := r.Results[userID]
		if !ok {
			continue
		}
		if r.ReporterID == userID {
			selfResult = res
		}
		if res == models.ClientResultDisconnected {
			sawDisconnect = true
		}
	}

	switch selfResult {
	case models.ClientResultDefeat:
		return models.ResultLoss
	case models.ClientResultDisconnected:
		if elapsed >= opts.MinDisconnectTimeMs {
			return models.ResultLoss
		}
		return models.ResultUnknown
	}
	if sawDisconnect {
		if elapsed >= opts.MinDisconnectTimeMs {
			return models.ResultLoss
		}
		return models.ResultUnknown
	}
	return models.ResultUnknown
}

// mutualDefeat reports whether every participant conceded: each human filed
// a report and every report marks every human slot defeated.
func mutualDefeat(humans map[uint]*models.GamePlayer, reports []models.ReportedResult) bool {
	reported := make(map[uint]bool, len(humans))
	for _, r := range reports {
		if _, ok := humans[r.ReporterID]; !ok {
			continue
		}
		reported[r.ReporterID] = true
		for userID := range humans {
			if r.Results[userID] != models.ClientResultDefeat {
				return false
			}
		}
	}
	return len(reported) == len(humans)
}

func drawGame(humans map[uint]*models.GamePlayer, elapsed int64) models.ReconciledGame {
	results := make(map[uint]models.ReconciledPlayerResult, len(humans))
	for userID, p := range humans {
		results[userID] = models.ReconciledPlayerResult{Race: p.AssignedRace, Result: models.ResultDraw}
	}
	return models.ReconciledGame{Results: results, Disputed: false, TimeMs: elapsed}
}

func disputedGame(humans map[uint]*models.GamePlayer, elapsed int64) models.ReconciledGame {
	results := make(map[uint]models.ReconciledPlayerResult, len(humans))
	for userID, p := range humans {
		results[userID] = models.ReconciledPlayerResult{Race: p.AssignedRace, Result: models.ResultUnknown}
	}
	return models.ReconciledGame{Results: results, Disputed: true, TimeMs: elapsed}
}
