package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GameClientResult is a result as observed and reported by one game client
// about one slot. Playing means the reporter last saw that slot still in game.
type GameClientResult string

const (
	ClientResultPlaying      GameClientResult = "playing"
	ClientResultDisconnected GameClientResult = "disconnected"
	ClientResultDefeat       GameClientResult = "defeat"
	ClientResultVictory      GameClientResult = "victory"
)

// PlayerResultsMap maps participant user IDs to the result the reporter
// observed for them. Stored as a JSON column.
type PlayerResultsMap map[uint]GameClientResult

func (m PlayerResultsMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *PlayerResultsMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for PlayerResultsMap: %T", value)
	}
	return json.Unmarshal(data, m)
}

// ReportedResult is one client's sworn statement of what it observed at the
// end of a game. One row per (game, reporter), never updated after creation.
type ReportedResult struct {
	GameID     string           `gorm:"primaryKey;size:36" json:"game_id"`
	ReporterID uint             `gorm:"primaryKey" json:"reporter_id"`
	TimeMs     int64            `gorm:"not null" json:"time_ms"`
	Results    PlayerResultsMap `gorm:"type:jsonb;not null" json:"results"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (ReportedResult) TableName() string {
	return "reported_results"
}

// ReportedPlayerResult is one [userId, result] pair from the submit body.
type ReportedPlayerResult struct {
	UserID uint
	Result GameClientResult
}

func (r *ReportedPlayerResult) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("player result must be a [userId, result] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.UserID); err != nil {
		return fmt.Errorf("invalid user id in player result: %w", err)
	}
	if err := json.Unmarshal(pair[1], &r.Result); err != nil {
		return fmt.Errorf("invalid result in player result: %w", err)
	}
	switch r.Result {
	case ClientResultPlaying, ClientResultDisconnected, ClientResultDefeat, ClientResultVictory:
		return nil
	default:
		return fmt.Errorf("unknown game client result %q", r.Result)
	}
}

func (r ReportedPlayerResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{r.UserID, r.Result})
}

type SubmitResultRequest struct {
	UserID        uint                   `json:"user_id" binding:"required"`
	ResultCode    string                 `json:"result_code" binding:"required"`
	Time          int64                  `json:"time" binding:"min=0"`
	PlayerResults []ReportedPlayerResult `json:"player_results" binding:"required,min=1"`
}

// ResultsMap converts the submitted pair list into the stored map form.
func (r *SubmitResultRequest) ResultsMap() PlayerResultsMap {
	m := make(PlayerResultsMap, len(r.PlayerResults))
	for _, pr := range r.PlayerResults {
		m[pr.UserID] = pr.Result
	}
	return m
}

// ReconciledResult is the per-slot outcome after merging every report.
type ReconciledResult string

const (
	ResultWin     ReconciledResult = "win"
	ResultLoss    ReconciledResult = "loss"
	ResultDraw    ReconciledResult = "draw"
	ResultUnknown ReconciledResult = "unknown"
)

// ReconciledPlayerResult is the authoritative outcome for one participant.
type ReconciledPlayerResult struct {
	Race   string           `json:"race"` // assigned race, random already resolved
	Result ReconciledResult `json:"result"`
}

// ReconciledGame is the output of reconciling one game's reports.
type ReconciledGame struct {
	Results  map[uint]ReconciledPlayerResult `json:"results"`
	Disputed bool                            `json:"disputed"`
	TimeMs   int64                           `json:"time_ms"`
}

// Rateable reports whether every human participant resolved to a win or a
// loss. Games with unknown slots finish unrated.
func (r *ReconciledGame) Rateable() bool {
	if r.Disputed || len(r.Results) == 0 {
		return false
	}
	for _, pr := range r.Results {
		if pr.Result != ResultWin && pr.Result != ResultLoss {
			return false
		}
	}
	return true
}
