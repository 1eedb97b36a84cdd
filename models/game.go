package models

import (
	"time"
)

// Game status lifecycle, reported by clients as the match progresses.
const (
	GameStatusLaunching  = "launching"
	GameStatusPlaying    = "playing"
	GameStatusHasResult  = "has_result"
	GameStatusResultSent = "result_sent"
	GameStatusFinished   = "finished"
	GameStatusError      = "error"
)

const (
	GameSourceMatchmaking = "matchmaking"
	GameSourceLobby       = "lobby"
)

const (
	GameTypeMelee     = "melee"
	GameTypeTeamMelee = "team_melee"
	GameTypeFFA       = "ffa"
	GameTypeUMS       = "ums"
)

const (
	RaceProtoss = "protoss"
	RaceTerran  = "terran"
	RaceZerg    = "zerg"
	RaceRandom  = "random"
)

type Game struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	MapName         string     `gorm:"size:255;not null" json:"map_name"`
	GameType        string     `gorm:"size:20;not null" json:"game_type"` // melee, team_melee, ffa, ums
	GameSource      string     `gorm:"size:20;not null" json:"game_source"`
	MatchmakingType string     `gorm:"size:10" json:"matchmaking_type"` // set for matchmaking games only
	Status          string     `gorm:"size:20;default:launching" json:"status"`
	Disputed        bool       `gorm:"default:false" json:"disputed"`
	StartTime       time.Time  `json:"start_time"`
	GameLengthMs    *int64     `json:"game_length_ms"`
	SettledAt       *time.Time `json:"settled_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Players []GamePlayer `gorm:"foreignKey:GameID" json:"players,omitempty"`
}

func (Game) TableName() string {
	return "games"
}

// GamePlayer is the per-user game membership row. Its result code is the
// only admission control on result reports for otherwise-anonymous clients.
type GamePlayer struct {
	GameID          string     `gorm:"primaryKey;size:36;uniqueIndex:idx_game_players_game_user,priority:1" json:"game_id"`
	SlotIndex       int        `gorm:"primaryKey" json:"slot_index"`
	UserID          uint       `gorm:"uniqueIndex:idx_game_players_game_user,priority:2,where:user_id > 0" json:"user_id"`
	TeamID          int        `gorm:"not null" json:"team_id"`
	SelectedRace    string     `gorm:"size:10;not null" json:"selected_race"`
	AssignedRace    string     `gorm:"size:10;not null" json:"assigned_race"`
	IsComputer      bool       `gorm:"default:false" json:"is_computer"`
	ResultCode      string     `gorm:"size:36;not null" json:"-"`
	ReportedResults bool       `gorm:"default:false" json:"reported_results"`
	ReportedAt      *time.Time `json:"reported_at"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (GamePlayer) TableName() string {
	return "game_players"
}

// IsHuman reports whether this slot needs a result report of its own.
func (p *GamePlayer) IsHuman() bool {
	return !p.IsComputer
}

type CreateGameSlotRequest struct {
	UserID     uint   `json:"user_id"`
	Race       string `json:"race" binding:"required,oneof=protoss terran zerg random"`
	IsComputer bool   `json:"is_computer"`
}

type CreateGameRequest struct {
	MapName         string                    `json:"map_name" binding:"required"`
	GameType        string                    `json:"game_type" binding:"required,oneof=melee team_melee ffa ums"`
	GameSource      string                    `json:"game_source" binding:"required,oneof=matchmaking lobby"`
	MatchmakingType string                    `json:"matchmaking_type" binding:"omitempty,oneof=1v1 2v2"`
	Teams           [][]CreateGameSlotRequest `json:"teams" binding:"required,min=1"`
}

// CreateGameResponse hands each human participant their secret result code.
// Codes are delivered to clients out-of-band at launch and never listed again.
type CreateGameResponse struct {
	Game        Game            `json:"game"`
	ResultCodes map[uint]string `json:"result_codes"`
}

type UpdateGameStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=playing has_result result_sent finished error"`
}
