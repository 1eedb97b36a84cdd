package migrations

import "gorm.io/gorm"

func GetLadderMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_06_10_000000_create_users_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS users (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL UNIQUE,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`DROP TABLE IF EXISTS users;`).Error
			},
		},
		{
			Name: "2025_06_10_000001_create_games_tables",
			Up: func(db *gorm.DB) error {
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS games (
						id VARCHAR(36) PRIMARY KEY,
						map_name VARCHAR(255) NOT NULL,
						game_type VARCHAR(20) NOT NULL,
						game_source VARCHAR(20) NOT NULL,
						matchmaking_type VARCHAR(10),
						status VARCHAR(20) DEFAULT 'launching',
						disputed BOOLEAN DEFAULT FALSE,
						start_time TIMESTAMP,
						game_length_ms BIGINT,
						settled_at TIMESTAMP NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE INDEX IF NOT EXISTS idx_games_status ON games(status);
					CREATE INDEX IF NOT EXISTS idx_games_game_source ON games(game_source);
				`).Error; err != nil {
					return err
				}

				return db.Exec(`
					CREATE TABLE IF NOT EXISTS game_players (
						game_id VARCHAR(36) NOT NULL,
						slot_index INT NOT NULL,
						user_id BIGINT NOT NULL DEFAULT 0,
						team_id INT NOT NULL,
						selected_race VARCHAR(10) NOT NULL,
						assigned_race VARCHAR(10) NOT NULL,
						is_computer BOOLEAN DEFAULT FALSE,
						result_code VARCHAR(36) NOT NULL DEFAULT '',
						reported_results BOOLEAN DEFAULT FALSE,
						reported_at TIMESTAMP NULL,
						PRIMARY KEY (game_id, slot_index),
						FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_game_players_game_user
						ON game_players(game_id, user_id) WHERE user_id > 0;
					CREATE INDEX IF NOT EXISTS idx_game_players_user_id ON game_players(user_id);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`
					DROP TABLE IF EXISTS game_players;
					DROP TABLE IF EXISTS games;
				`).Error
			},
		},
		{
			Name: "2025_06_10_000002_create_reported_results_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS reported_results (
						game_id VARCHAR(36) NOT NULL,
						reporter_id BIGINT NOT NULL,
						time_ms BIGINT NOT NULL,
						results JSONB NOT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						PRIMARY KEY (game_id, reporter_id),
						FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
					);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`DROP TABLE IF EXISTS reported_results;`).Error
			},
		},
		{
			Name: "2025_06_10_000003_create_rating_tables",
			Up: func(db *gorm.DB) error {
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS matchmaking_ratings (
						user_id BIGINT NOT NULL,
						matchmaking_type VARCHAR(10) NOT NULL,
						rating FLOAT NOT NULL DEFAULT 1500,
						k_factor FLOAT NOT NULL DEFAULT 40,
						uncertainty FLOAT NOT NULL DEFAULT 200,
						unexpected_streak INT NOT NULL DEFAULT 0,
						num_games_played INT NOT NULL DEFAULT 0,
						wins INT NOT NULL DEFAULT 0,
						losses INT NOT NULL DEFAULT 0,
						last_played_date TIMESTAMP,
						PRIMARY KEY (user_id, matchmaking_type)
					);
					CREATE INDEX IF NOT EXISTS idx_matchmaking_ratings_rating
						ON matchmaking_ratings(matchmaking_type, rating DESC);
				`).Error; err != nil {
					return err
				}

				// The (user_id, game_id) primary key doubles as the
				// settlement idempotence guard.
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS matchmaking_rating_changes (
						user_id BIGINT NOT NULL,
						game_id VARCHAR(36) NOT NULL,
						matchmaking_type VARCHAR(10) NOT NULL,
						change_time TIMESTAMP NOT NULL,
						outcome VARCHAR(10) NOT NULL,
						rating FLOAT NOT NULL,
						rating_change FLOAT NOT NULL,
						k_factor FLOAT NOT NULL,
						k_factor_change FLOAT NOT NULL,
						uncertainty FLOAT NOT NULL,
						uncertainty_change FLOAT NOT NULL,
						unexpected_streak INT NOT NULL,
						PRIMARY KEY (user_id, game_id)
					);
					CREATE INDEX IF NOT EXISTS idx_rating_changes_user_time
						ON matchmaking_rating_changes(user_id, change_time DESC);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`
					DROP TABLE IF EXISTS matchmaking_rating_changes;
					DROP TABLE IF EXISTS matchmaking_ratings;
				`).Error
			},
		},
		{
			Name: "2025_06_10_000004_create_user_stats_counters_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS user_stats_counters (
						user_id BIGINT NOT NULL,
						selected_race VARCHAR(10) NOT NULL,
						assigned_race VARCHAR(10) NOT NULL,
						outcome VARCHAR(10) NOT NULL,
						count INT NOT NULL DEFAULT 0,
						PRIMARY KEY (user_id, selected_race, assigned_race, outcome)
					);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`DROP TABLE IF EXISTS user_stats_counters;`).Error
			},
		},
	}
}
