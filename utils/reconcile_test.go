package utils

import (
	"testing"

	"ladder-api/models"
)

func game1v1(a, b uint) *models.Game {
	return &models.Game{
		ID:              "game-1",
		GameType:        models.GameTypeMelee,
		GameSource:      models.GameSourceMatchmaking,
		MatchmakingType: models.MatchmakingType1v1,
		Players: []models.GamePlayer{
			{GameID: "game-1", SlotIndex: 0, UserID: a, TeamID: 0, SelectedRace: models.RaceTerran, AssignedRace: models.RaceTerran},
			{GameID: "game-1", SlotIndex: 1, UserID: b, TeamID: 1, SelectedRace: models.RaceZerg, AssignedRace: models.RaceZerg},
		},
	}
}

func report(reporter uint, timeMs int64, results models.PlayerResultsMap) models.ReportedResult {
	return models.ReportedResult{GameID: "game-1", ReporterID: reporter, TimeMs: timeMs, Results: results}
}

const longGame = int64(10 * 60 * 1000)

func TestReconcileAgreeingReports(t *testing.T) {
	game := game1v1(1, 2)
	reports := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDefeat}),
		report(2, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDefeat}),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())

	if rec.Disputed {
		t.Fatal("agreeing reports should not be disputed")
	}
	if rec.Results[1].Result != models.ResultWin {
		t.Errorf("user 1 = %q, want win", rec.Results[1].Result)
	}
	if rec.Results[2].Result != models.ResultLoss {
		t.Errorf("user 2 = %q, want loss", rec.Results[2].Result)
	}
	if !rec.Rateable() {
		t.Error("clean 1v1 outcome should be rateable")
	}
	if rec.Results[1].Race != models.RaceTerran {
		t.Errorf("user 1 race = %q, want terran", rec.Results[1].Race)
	}
}

func TestReconcileConflictingWinners(t *testing.T) {
	game := game1v1(1, 2)
	reports := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDefeat}),
		report(2, longGame, models.PlayerResultsMap{1: models.ClientResultDefeat, 2: models.ClientResultVictory}),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())

	if !rec.Disputed {
		t.Fatal("conflicting winners must be disputed")
	}
	for userID, pr := range rec.Results {
		if pr.Result != models.ResultUnknown {
			t.Errorf("user %d = %q, want unknown in a disputed game", userID, pr.Result)
		}
	}
	if rec.Rateable() {
		t.Error("disputed game must never be rateable")
	}
}

func TestReconcileSingleReportQuorum(t *testing.T) {
	game := game1v1(1, 2)
	reports := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDefeat}),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())

	if rec.Disputed {
		t.Fatal("a lone uncontradicted report is not a dispute")
	}
	if rec.Results[1].Result != models.ResultWin {
		t.Errorf("user 1 = %q, want win", rec.Results[1].Result)
	}
	// Nobody but the winner vouches for user 2's defeat; the slot stays
	// unknown and the game finishes unrated.
	if rec.Results[2].Result != models.ResultUnknown {
		t.Errorf("user 2 = %q, want unknown", rec.Results[2].Result)
	}
	if rec.Rateable() {
		t.Error("game with an unknown slot must not be rateable")
	}
}

func TestReconcileNoVictoryClaims(t *testing.T) {
	game := game1v1(1, 2)
	reports := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultDefeat, 2: models.ClientResultPlaying}),
		report(2, longGame, models.PlayerResultsMap{1: models.ClientResultPlaying, 2: models.ClientResultDefeat}),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())
	if !rec.Disputed {
		t.Error("reports with no winner cannot be collapsed and must dispute")
	}
}

func TestReconcileMutualDefeatIsDraw(t *testing.T) {
	game := game1v1(1, 2)
	conceded := models.PlayerResultsMap{1: models.ClientResultDefeat, 2: models.ClientResultDefeat}
	reports := []models.ReportedResult{
		report(1, longGame, conceded),
		report(2, longGame, conceded),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())

	if rec.Disputed {
		t.Fatal("unanimous mutual concession is not a dispute")
	}
	for userID, pr := range rec.Results {
		if pr.Result != models.ResultDraw {
			t.Errorf("user %d = %q, want draw", userID, pr.Result)
		}
	}
	if rec.Rateable() {
		t.Error("draws must never feed the rating engine")
	}
}

func TestReconcilePartialConcessionStaysDisputed(t *testing.T) {
	game := game1v1(1, 2)
	reports := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultDefeat, 2: models.ClientResultDefeat}),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())
	if !rec.Disputed {
		t.Error("a lone concession does not establish a draw")
	}
}

func TestReconcileDisconnectAfterThreshold(t *testing.T) {
	game := game1v1(1, 2)
	reports := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDisconnected}),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())

	if rec.Disputed {
		t.Fatal("unexpected dispute")
	}
	if rec.Results[2].Result != models.ResultLoss {
		t.Errorf("late disconnect = %q, want loss", rec.Results[2].Result)
	}
}

func TestReconcileEarlyDisconnectIsUnknown(t *testing.T) {
	game := game1v1(1, 2)
	earlyTime := int64(30 * 1000) // well under the disconnect floor
	reports := []models.ReportedResult{
		report(1, earlyTime, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDisconnected}),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())

	if rec.Disputed {
		t.Fatal("unexpected dispute")
	}
	if rec.Results[2].Result != models.ResultUnknown {
		t.Errorf("early disconnect = %q, want unknown", rec.Results[2].Result)
	}
	if rec.Rateable() {
		t.Error("early-disconnect game must not be rateable")
	}
}

func TestReconcileTeamGame(t *testing.T) {
	game := &models.Game{
		ID:              "game-1",
		GameType:        models.GameTypeTeamMelee,
		GameSource:      models.GameSourceMatchmaking,
		MatchmakingType: models.MatchmakingType2v2,
		Players: []models.GamePlayer{
			{GameID: "game-1", SlotIndex: 0, UserID: 1, TeamID: 0, AssignedRace: models.RaceTerran},
			{GameID: "game-1", SlotIndex: 1, UserID: 2, TeamID: 0, AssignedRace: models.RaceZerg},
			{GameID: "game-1", SlotIndex: 2, UserID: 3, TeamID: 1, AssignedRace: models.RaceProtoss},
			{GameID: "game-1", SlotIndex: 3, UserID: 4, TeamID: 1, AssignedRace: models.RaceProtoss},
		},
	}
	winning := models.PlayerResultsMap{
		1: models.ClientResultVictory, 2: models.ClientResultVictory,
		3: models.ClientResultDefeat, 4: models.ClientResultDefeat,
	}
	reports := []models.ReportedResult{
		report(1, longGame, winning),
		report(2, longGame, winning),
		report(3, longGame, winning),
		report(4, longGame, winning),
	}

	rec := ReconcileResults(game, reports, DefaultReconcileOptions())

	if rec.Disputed {
		t.Fatal("unanimous team reports should not dispute")
	}
	for _, userID := range []uint{1, 2} {
		if rec.Results[userID].Result != models.ResultWin {
			t.Errorf("user %d = %q, want win", userID, rec.Results[userID].Result)
		}
	}
	for _, userID := range []uint{3, 4} {
		if rec.Results[userID].Result != models.ResultLoss {
			t.Errorf("user %d = %q, want loss", userID, rec.Results[userID].Result)
		}
	}
}

func TestCompletionPolicies(t *testing.T) {
	game := game1v1(1, 2)
	partial := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDefeat}),
	}
	full := append(partial,
		report(2, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultDefeat}))
	inconclusive := []models.ReportedResult{
		report(1, longGame, models.PlayerResultsMap{1: models.ClientResultVictory, 2: models.ClientResultPlaying}),
	}

	if (AllReportedPolicy{}).IsComplete(game, partial) {
		t.Error("AllReportedPolicy should wait for the second report")
	}
	if !(AllReportedPolicy{}).IsComplete(game, full) {
		t.Error("AllReportedPolicy should accept a full report set")
	}

	if !(UnambiguousOutcomePolicy{}).IsComplete(game, partial) {
		t.Error("one report covering every slot terminally should complete")
	}
	if (UnambiguousOutcomePolicy{}).IsComplete(game, inconclusive) {
		t.Error("a still-playing observation should not complete")
	}
	if (UnambiguousOutcomePolicy{}).IsComplete(game, nil) {
		t.Error("no reports can never be complete")
	}

	if (TeamQuorumPolicy{}).IsComplete(game, partial) {
		t.Error("team quorum needs a report from each team")
	}
	if !(TeamQuorumPolicy{}).IsComplete(game, full) {
		t.Error("team quorum satisfied by both sides reporting")
	}
}
