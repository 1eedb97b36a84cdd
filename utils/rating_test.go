package utils

import (
	"math"
	"testing"
	"time"

	"ladder-api/models"
)

func priorRating(userID uint, rating float64) models.MatchmakingRating {
	r := models.NewDefaultRating(userID, models.MatchmakingType1v1)
	r.Rating = rating
	return r
}

func outcomes1v1(winner, loser uint) map[uint]models.ReconciledResult {
	return map[uint]models.ReconciledResult{
		winner: models.ResultWin,
		loser:  models.ResultLoss,
	}
}

func TestEvenMatchMovesRatingsEqualAndOpposite(t *testing.T) {
	now := time.Now()
	priors := []models.MatchmakingRating{priorRating(1, 1500), priorRating(2, 1500)}

	changes := ComputeRatingChanges("g1", now, priors, outcomes1v1(1, 2))

	winDelta := changes[1].RatingChange
	lossDelta := changes[2].RatingChange
	if winDelta <= 0 {
		t.Fatalf("winner delta = %v, want > 0", winDelta)
	}
	if math.Abs(winDelta+lossDelta) > 1e-9 {
		t.Errorf("deltas not zero-sum: win %v, loss %v", winDelta, lossDelta)
	}

	for userID := range changes {
		rating := priorRating(userID, 1500)
		ApplyRatingChange(&rating, changes[userID], now)
		if rating.NumGamesPlayed != 1 {
			t.Errorf("user %d games played = %d, want 1", userID, rating.NumGamesPlayed)
		}
	}

	winnerRating := priorRating(1, 1500)
	ApplyRatingChange(&winnerRating, changes[1], now)
	if winnerRating.Wins != 1 || winnerRating.Losses != 0 {
		t.Errorf("winner W-L = %d-%d, want 1-0", winnerRating.Wins, winnerRating.Losses)
	}
}

func TestWinNeverDecreasesAndLossNeverIncreases(t *testing.T) {
	now := time.Now()
	gaps := []float64{-800, -400, -100, 0, 100, 400, 800}
	for _, gap := range gaps {
		priors := []models.MatchmakingRating{priorRating(1, 1500+gap), priorRating(2, 1500)}
		changes := ComputeRatingChanges("g1", now, priors, outcomes1v1(1, 2))

		if changes[1].RatingChange <= 0 {
			t.Errorf("gap %v: win delta = %v, want > 0", gap, changes[1].RatingChange)
		}
		if changes[2].RatingChange >= 0 {
			t.Errorf("gap %v: loss delta = %v, want < 0", gap, changes[2].RatingChange)
		}
	}
}

func TestComputeRatingChangesIsDeterministic(t *testing.T) {
	now := time.Now()
	priors := []models.MatchmakingRating{priorRating(1, 1387), priorRating(2, 1692)}

	first := ComputeRatingChanges("g1", now, priors, outcomes1v1(1, 2))
	second := ComputeRatingChanges("g1", now, priors, outcomes1v1(1, 2))

	for userID := range first {
		if first[userID] != second[userID] {
			t.Errorf("user %d: replay differs: %+v vs %+v", userID, first[userID], second[userID])
		}
	}
}

func TestKFactorSchedule(t *testing.T) {
	cases := []struct {
		games int
		want  float64
	}{
		{0, 40}, {9, 40}, {10, 32}, {24, 32}, {25, 24}, {49, 24}, {50, 16}, {500, 16},
	}
	for _, tc := range cases {
		if got := KFactorForGamesPlayed(tc.games); got != tc.want {
			t.Errorf("KFactorForGamesPlayed(%d) = %v, want %v", tc.games, got, tc.want)
		}
	}
}

func TestUncertaintyDecaysTowardFloor(t *testing.T) {
	now := time.Now()
	priors := []models.MatchmakingRating{priorRating(1, 1500), priorRating(2, 1500)}
	changes := ComputeRatingChanges("g1", now, priors, outcomes1v1(1, 2))

	if changes[1].Uncertainty >= models.DefaultUncertainty {
		t.Errorf("uncertainty did not decay: %v", changes[1].Uncertainty)
	}

	low := priorRating(1, 1500)
	low.Uncertainty = 11
	changes = ComputeRatingChanges("g1", now, []models.MatchmakingRating{low, priorRating(2, 1500)}, outcomes1v1(1, 2))
	if changes[1].Uncertainty != uncertaintyFloor {
		t.Errorf("uncertainty = %v, want floor %v", changes[1].Uncertainty, uncertaintyFloor)
	}
}

func TestUnexpectedStreakTracking(t *testing.T) {
	now := time.Now()

	// Upset: the 1200 beats the 1600. Both sides defied the rating.
	underdog := priorRating(1, 1200)
	favorite := priorRating(2, 1600)
	changes := ComputeRatingChanges("g1", now, []models.MatchmakingRating{underdog, favorite}, outcomes1v1(1, 2))
	if changes[1].UnexpectedStreak != 1 {
		t.Errorf("underdog streak = %d, want 1", changes[1].UnexpectedStreak)
	}
	if changes[2].UnexpectedStreak != 1 {
		t.Errorf("favorite streak = %d, want 1", changes[2].UnexpectedStreak)
	}

	// Expected result resets the streak.
	underdog.UnexpectedStreak = 2
	changes = ComputeRatingChanges("g1", now, []models.MatchmakingRating{underdog, favorite}, outcomes1v1(2, 1))
	if changes[1].UnexpectedStreak != 0 {
		t.Errorf("streak after expected loss = %d, want 0", changes[1].UnexpectedStreak)
	}
}

func TestUnexpectedStreakBoostsKFactor(t *testing.T) {
	now := time.Now()
	steady := priorRating(1, 1200)
	boosted := priorRating(1, 1200)
	boosted.UnexpectedStreak = unexpectedStreakThreshold
	opponent := priorRating(2, 1600)

	plain := ComputeRatingChanges("g1", now, []models.MatchmakingRating{steady, opponent}, outcomes1v1(1, 2))
	accel := ComputeRatingChanges("g1", now, []models.MatchmakingRating{boosted, opponent}, outcomes1v1(1, 2))

	if accel[1].RatingChange <= plain[1].RatingChange {
		t.Errorf("streak boost missing: boosted delta %v, plain delta %v",
			accel[1].RatingChange, plain[1].RatingChange)
	}
}

func TestOneSidedOutcomeProducesNoChanges(t *testing.T) {
	now := time.Now()
	priors := []models.MatchmakingRating{priorRating(1, 1500), priorRating(2, 1500)}
	allWins := map[uint]models.ReconciledResult{
		1: models.ResultWin,
		2: models.ResultWin,
	}

	changes := ComputeRatingChanges("g1", now, priors, allWins)
	if len(changes) != 0 {
		t.Fatalf("got %d changes for an outcome set with no losers, want none", len(changes))
	}

	soloWin := map[uint]models.ReconciledResult{1: models.ResultWin}
	changes = ComputeRatingChanges("g1", now, []models.MatchmakingRating{priorRating(1, 1500)}, soloWin)
	for userID, change := range changes {
		if math.IsNaN(change.Rating) || math.IsNaN(change.RatingChange) {
			t.Fatalf("user %d change is NaN: %+v", userID, change)
		}
	}
	if len(changes) != 0 {
		t.Fatalf("got %d changes for a lone winner, want none", len(changes))
	}
}
