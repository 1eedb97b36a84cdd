package models

// UserStatsCounter is a descriptive per-user counter bucket keyed by race
// matchup and outcome. Best-effort: incremented outside the settlement
// transaction, never rating-affecting.
type UserStatsCounter struct {
	UserID       uint   `gorm:"primaryKey" json:"user_id"`
	SelectedRace string `gorm:"primaryKey;size:10" json:"selected_race"`
	AssignedRace string `gorm:"primaryKey;size:10" json:"assigned_race"`
	Outcome      string `gorm:"primaryKey;size:10" json:"outcome"`
	Count        int    `gorm:"not null;default:0" json:"count"`
}

func (UserStatsCounter) TableName() string {
	return "user_stats_counters"
}

type UserStatsResponse struct {
	UserID   uint               `json:"user_id"`
	Counters []UserStatsCounter `json:"counters"`
}
