package models

import (
	"time"
)

// Matchmaking rating defaults. New accounts start wide open: a high K-factor
// and a large uncertainty bonus let the first games move ratings quickly.
const (
	DefaultRating      = 1500.0
	DefaultKFactor     = 40.0
	DefaultUncertainty = 200.0
)

const (
	MatchmakingType1v1 = "1v1"
	MatchmakingType2v2 = "2v2"
)

// MatchmakingRating is one user's rating state for one matchmaking type.
// Mutated only inside the settlement transaction, never deleted.
type MatchmakingRating struct {
	UserID           uint      `gorm:"primaryKey" json:"user_id"`
	MatchmakingType  string    `gorm:"primaryKey;size:10" json:"matchmaking_type"`
	Rating           float64   `gorm:"not null;default:1500" json:"rating"`
	KFactor          float64   `gorm:"not null;default:40" json:"k_factor"`
	Uncertainty      float64   `gorm:"not null;default:200" json:"uncertainty"`
	UnexpectedStreak int       `gorm:"not null;default:0" json:"unexpected_streak"`
	NumGamesPlayed   int       `gorm:"not null;default:0" json:"num_games_played"`
	Wins             int       `gorm:"not null;default:0" json:"wins"`
	Losses           int       `gorm:"not null;default:0" json:"losses"`
	LastPlayedDate   time.Time `json:"last_played_date"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (MatchmakingRating) TableName() string {
	return "matchmaking_ratings"
}

// NewDefaultRating is the row created the first time a user queues for a
// matchmaking type.
func NewDefaultRating(userID uint, matchmakingType string) MatchmakingRating {
	return MatchmakingRating{
		UserID:          userID,
		MatchmakingType: matchmakingType,
		Rating:          DefaultRating,
		KFactor:         DefaultKFactor,
		Uncertainty:     DefaultUncertainty,
	}
}

// MatchmakingRatingChange is the append-only audit row for one settled game.
// Its (user_id, game_id) primary key is what makes settlement idempotent: a
// racing duplicate settlement fails this insert and becomes a no-op.
type MatchmakingRatingChange struct {
	UserID            uint      `gorm:"primaryKey" json:"user_id"`
	GameID            string    `gorm:"primaryKey;size:36" json:"game_id"`
	MatchmakingType   string    `gorm:"size:10;not null" json:"matchmaking_type"`
	ChangeTime        time.Time `gorm:"not null" json:"change_time"`
	Outcome           string    `gorm:"size:10;not null" json:"outcome"` // win or loss
	Rating            float64   `gorm:"not null" json:"rating"`          // post-change value
	RatingChange      float64   `gorm:"not null" json:"rating_change"`
	KFactor           float64   `gorm:"not null" json:"k_factor"`
	KFactorChange     float64   `gorm:"not null" json:"k_factor_change"`
	Uncertainty       float64   `gorm:"not null" json:"uncertainty"`
	UncertaintyChange float64   `gorm:"not null" json:"uncertainty_change"`
	UnexpectedStreak  int       `gorm:"not null" json:"unexpected_streak"`
}

func (MatchmakingRatingChange) TableName() string {
	return "matchmaking_rating_changes"
}

type LadderEntry struct {
	Rank   int               `json:"rank"`
	Rating MatchmakingRating `json:"rating"`
}

type LadderResponse struct {
	MatchmakingType string        `json:"matchmaking_type"`
	Entries         []LadderEntry `json:"entries"`
}
