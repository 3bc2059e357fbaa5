// FILE: internal/core/core.go
package core

import "fmt"

// Team is a side of the board. TeamNone marks an empty cell or an undecided game.
type Team int8

const (
	TeamNone Team = iota
	TeamWhite
	TeamBlack
)

func (t Team) String() string {
	switch t {
	case TeamWhite:
		return "White"
	case TeamBlack:
		return "Black"
	case TeamNone:
		return "None"
	default:
		return "UNKNOWN"
	}
}

// Code is the single letter used in API payloads and storage rows
func (t Team) Code() string {
	switch t {
	case TeamWhite:
		return "w"
	case TeamBlack:
		return "b"
	default:
		return "-"
	}
}

// Opponent returns the other side; TeamNone has no opponent.
func (t Team) Opponent() Team {
	switch t {
	case TeamWhite:
		return TeamBlack
	case TeamBlack:
		return TeamWhite
	default:
		return TeamNone
	}
}

type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "White wins"
	case StateBlackWins:
		return "Black wins"
	case StateDraw:
		return "Draw"
	default:
		return "Ongoing"
	}
}

// Key is the snake_case form used by the API and the results table
func (s State) Key() string {
	switch s {
	case StateWhiteWins:
		return "white_wins"
	case StateBlackWins:
		return "black_wins"
	case StateDraw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Winner maps a finished state to the winning team.
func (s State) Winner() Team {
	switch s {
	case StateWhiteWins:
		return TeamWhite
	case StateBlackWins:
		return TeamBlack
	default:
		return TeamNone
	}
}

func StateFromWinner(t Team) State {
	switch t {
	case TeamWhite:
		return StateWhiteWins
	case TeamBlack:
		return StateBlackWins
	default:
		return StateOngoing
	}
}

// PlayerKind selects a move-selection policy.
type PlayerKind string

const (
	PlayerHuman       PlayerKind = "human"
	PlayerRandom      PlayerKind = "random"
	PlayerCapture     PlayerKind = "capture"
	PlayerKingCapture PlayerKind = "kingcapture"
	PlayerAI          PlayerKind = "ai"
)

var playerKinds = []PlayerKind{PlayerHuman, PlayerRandom, PlayerCapture, PlayerKingCapture, PlayerAI}

func ParsePlayerKind(s string) (PlayerKind, error) {
	switch s {
	case "h":
		return PlayerHuman, nil
	case "c":
		return PlayerAI, nil
	}
	for _, k := range playerKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown player kind %q (use: human, random, capture, kingcapture, ai)", s)
}

// IsComputer reports whether moves come from a policy rather than from outside input
func (k PlayerKind) IsComputer() bool {
	return k != PlayerHuman
}
