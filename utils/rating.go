package utils

import (
	"math"
	"time"

	"ladder-api/models"
)

const (
	ratingScale = 400.0

	// Uncertainty decays multiplicatively toward a floor as games accrue;
	// while high it widens every rating swing.
	uncertaintyDecay      = 0.85
	uncertaintyFloor      = 10.0
	uncertaintyBonusScale = 400.0

	// An outcome is unexpected when the winner's expected score was below
	// this margin (the rating-implied underdog won).
	unexpectedMargin = 0.45

	// Past this many consecutive unexpected results the effective K-factor
	// is boosted to re-rank a misplaced account faster.
	unexpectedStreakThreshold = 3
	unexpectedStreakKBoost    = 1.5
)

// ExpectedScore returns the logistic win probability of a player at rating
// against an opponent at oppRating.
func ExpectedScore(rating, oppRating float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (oppRating-rating)/ratingScale))
}

// KFactorForGamesPlayed is the K-factor schedule: high early for fast
// convergence, decaying as the rating firms up.
func KFactorForGamesPlayed(numGamesPlayed int) float64 {
	switch {
	case numGamesPlayed < 10:
		return 40.0
	case numGamesPlayed < 25:
		return 32.0
	case numGamesPlayed < 50:
		return 24.0
	default:
		return 16.0
	}
}

// ComputeRatingChanges produces one audit-ready rating change per
// participant from the locked prior rating states and the reconciled
// win/loss outcome map. Pure and deterministic: the result depends only on
// the inputs, never on call order, so it can be replayed without DB access.
//
// Each player's expected score is taken against the average rating of the
// opposing side, which reduces to standard zero-sum Elo for 1v1.
func ComputeRatingChanges(gameID string, changeTime time.Time, priors []models.MatchmakingRating, outcomes map[uint]models.ReconciledResult) map[uint]models.MatchmakingRatingChange {
	priorByUser := make(map[uint]models.MatchmakingRating, len(priors))
	for _, p := range priors {
		priorByUser[p.UserID] = p
	}

	var winSum, lossSum float64
	var winCount, lossCount int
	for userID, outcome := range outcomes {
		prior, ok := priorByUser[userID]
		if !ok {
			continue
		}
		if outcome == models.ResultWin {
			winSum += prior.Rating
			winCount++
		} else {
			lossSum += prior.Rating
			lossCount++
		}
	}

	// A one-sided outcome set has no opposing side to take an expected
	// score against; there is nothing meaningful to compute.
	if winCount == 0 || lossCount == 0 {
		return nil
	}

	changes := make(map[uint]models.MatchmakingRatingChange, len(outcomes))
	for userID, outcome := range outcomes {
		prior, ok := priorByUser[userID]
		if !ok {
			continue
		}

		var oppAvg float64
		var actual float64
		if outcome == models.ResultWin {
			oppAvg = lossSum / float64(lossCount)
			actual = 1.0
		} else {
			oppAvg = winSum / float64(winCount)
			actual = 0.0
		}

		expected := ExpectedScore(prior.Rating, oppAvg)

		effectiveK := prior.KFactor
		if prior.UnexpectedStreak >= unexpectedStreakThreshold {
			effectiveK *= unexpectedStreakKBoost
		}

		uncertaintyBonus := prior.Uncertainty / uncertaintyBonusScale
		delta := effectiveK * (actual - expected) * (1.0 + uncertaintyBonus)

		newKFactor := KFactorForGamesPlayed(prior.NumGamesPlayed + 1)
		newUncertainty := math.Max(uncertaintyFloor, prior.Uncertainty*uncertaintyDecay)

		newStreak := 0
		if isUnexpected(actual, expected) {
			newStreak = prior.UnexpectedStreak + 1
		}

		changes[userID] = models.MatchmakingRatingChange{
			UserID:            userID,
			GameID:            gameID,
			MatchmakingType:   prior.MatchmakingType,
			ChangeTime:        changeTime,
			Outcome:           string(outcome),
			Rating:            prior.Rating + delta,
			RatingChange:      delta,
			KFactor:           newKFactor,
			KFactorChange:     newKFactor - prior.KFactor,
			Uncertainty:       newUncertainty,
			UncertaintyChange: newUncertainty - prior.Uncertainty,
			UnexpectedStreak:  newStreak,
		}
	}
	return changes
}

func isUnexpected(actual, expected float64) bool {
	if actual == 1.0 {
		return expected < unexpectedMargin
	}
	return expected > 1.0-unexpectedMargin
}

// ApplyRatingChange folds a computed change back into a rating row.
func ApplyRatingChange(rating *models.MatchmakingRating, change models.MatchmakingRatingChange, playedAt time.Time) {
	rating.Rating = change.Rating
	rating.KFactor = change.KFactor
	rating.Uncertainty = change.Uncertainty
	rating.UnexpectedStreak = change.UnexpectedStreak
	rating.NumGamesPlayed++
	if change.Outcome == string(models.ResultWin) {
		rating.Wins++
	} else {
		rating.Losses++
	}
	rating.LastPlayedDate = playedAt
}
