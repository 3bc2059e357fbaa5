// FILE: internal/storage/schema.go
package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID       string     `db:"game_id"`
	Source       string     `db:"source"` // "api", "cli" or "sim"
	Width        int        `db:"width"`
	Height       int        `db:"height"`
	InitialBoard string     `db:"initial_board"`
	WhiteKind    string     `db:"white_kind"`
	BlackKind    string     `db:"black_kind"`
	Depth        int        `db:"depth"`
	StartTimeUTC time.Time  `db:"start_time_utc"`
	EndTimeUTC   *time.Time `db:"end_time_utc"` // nil while the game is running
	State        string     `db:"state"`
	Winner       string     `db:"winner"` // "w", "b" or "-"
	Turns        int        `db:"turns"`
	FinalBoard   string     `db:"final_board"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID         int64     `db:"move_id"`
	GameID         string    `db:"game_id"`
	MoveNumber     int       `db:"move_number"`
	Move           string    `db:"move"`
	BoardAfterMove string    `db:"board_after_move"`
	PlayerColor    string    `db:"player_color"` // "w" or "b"
	PlayerKind     string    `db:"player_kind"`
	Captured       string    `db:"captured"` // glyph, empty when nothing was taken
	MoveTimeUTC    time.Time `db:"move_time_utc"`
}

// ResultRecord closes a game row.
type ResultRecord struct {
	GameID     string
	State      string
	Winner     string
	Turns      int
	FinalBoard string
	EndTimeUTC time.Time
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	source TEXT NOT NULL DEFAULT 'api',
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	initial_board TEXT NOT NULL,
	white_kind TEXT NOT NULL,
	black_kind TEXT NOT NULL,
	depth INTEGER NOT NULL DEFAULT 3,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	end_time_utc DATETIME,
	state TEXT NOT NULL DEFAULT 'ongoing',
	winner TEXT NOT NULL DEFAULT '-' CHECK(winner IN ('w', 'b', '-')),
	turns INTEGER NOT NULL DEFAULT 0,
	final_board TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	board_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	player_kind TEXT NOT NULL,
	captured TEXT NOT NULL DEFAULT '',
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_state ON games(state);
CREATE INDEX IF NOT EXISTS idx_games_white_kind ON games(white_kind);
CREATE INDEX IF NOT EXISTS idx_games_black_kind ON games(black_kind);
`
