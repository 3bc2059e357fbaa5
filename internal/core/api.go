// FILE: internal/core/api.go
package core

// Request types

type CreateGameRequest struct {
	White    string `json:"white" validate:"required,oneof=human random capture kingcapture ai"`
	Black    string `json:"black" validate:"required,oneof=human random capture kingcapture ai"`
	Width    int    `json:"width,omitempty" validate:"omitempty,min=2,max=26"`
	Height   int    `json:"height,omitempty" validate:"omitempty,min=2,max=99"`
	Depth    int    `json:"depth,omitempty" validate:"omitempty,min=1,max=6"`
	MaxTurns int    `json:"maxTurns,omitempty" validate:"omitempty,min=1,max=100000"`
	Board    string `json:"board,omitempty" validate:"omitempty,max=20000"` // text layout; overrides width/height
	Seed     int64  `json:"seed,omitempty"`
}

type ConfigurePlayersRequest struct {
	White string `json:"white" validate:"required,oneof=human random capture kingcapture ai"`
	Black string `json:"black" validate:"required,oneof=human random capture kingcapture ai"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=6"` // "cccc" asks the computer player to move
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=1000"`
}

type SimulationRequest struct {
	White    string `json:"white" validate:"required,oneof=random capture kingcapture ai"`
	Black    string `json:"black" validate:"required,oneof=random capture kingcapture ai"`
	Games    int    `json:"games" validate:"required,min=1,max=1000"`
	Width    int    `json:"width,omitempty" validate:"omitempty,min=2,max=26"`
	Height   int    `json:"height,omitempty" validate:"omitempty,min=2,max=99"`
	Depth    int    `json:"depth,omitempty" validate:"omitempty,min=1,max=6"`
	MaxTurns int    `json:"maxTurns,omitempty" validate:"omitempty,min=1,max=100000"`
	Workers  int    `json:"workers,omitempty" validate:"omitempty,min=1,max=64"`
	Seed     int64  `json:"seed,omitempty"`
	Record   bool   `json:"record,omitempty"` // persist every simulated game
}

// Response types

type GameResponse struct {
	GameID   string          `json:"gameId"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Board    string          `json:"board"`
	Turn     string          `json:"turn"`  // "w" or "b"
	State    string          `json:"state"` // "ongoing", "white_wins", etc
	Moves    []string        `json:"moves"`
	MaxTurns int             `json:"maxTurns,omitempty"`
	Players  PlayersResponse `json:"players"`
	LastMove *MoveInfo       `json:"lastMove,omitempty"`
}

type PlayersResponse struct {
	White string `json:"white"`
	Black string `json:"black"`
}

type MoveInfo struct {
	Move        string `json:"move,omitempty"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Captured    string `json:"captured,omitempty"`
	Resigned    bool   `json:"resigned,omitempty"`
	Stalled     bool   `json:"stalled,omitempty"`
	Score       int    `json:"score,omitempty"`
	Depth       int    `json:"depth,omitempty"`
	Nodes       int    `json:"nodes,omitempty"`
}

type LegalMovesResponse struct {
	Turn  string   `json:"turn"`
	Moves []string `json:"moves"`
}

type SimulationResponse struct {
	Games      int   `json:"games"`
	WhiteWins  int   `json:"whiteWins"`
	BlackWins  int   `json:"blackWins"`
	Draws      int   `json:"draws"`
	TotalTurns int   `json:"totalTurns"`
	DurationMs int64 `json:"durationMs"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
