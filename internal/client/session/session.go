// FILE: internal/client/session/session.go
package session

import (
	"io"

	"chesssim/internal/client/api"
	"chesssim/internal/core"
	"chesssim/internal/player"
)

// Session is the client's view of the server and the game it follows
type Session struct {
	APIBaseURL       string
	Client           *api.Client
	CurrentGame      string
	LastMoveCount    int
	CurrentGameState *core.GameResponse
	Verbose          bool

	// In answers the questions commands ask; Out receives everything printed.
	In  player.LineSource
	Out io.Writer
}

func New(baseURL string, in player.LineSource, out io.Writer) *Session {
	c := api.New(baseURL)
	c.Out = out
	return &Session{
		APIBaseURL: c.BaseURL,
		Client:     c,
		In:         in,
		Out:        out,
	}
}

// SetGame makes resp the followed game
func (s *Session) SetGame(resp *core.GameResponse) {
	s.CurrentGame = resp.GameID
	s.LastMoveCount = len(resp.Moves)
	s.CurrentGameState = resp
}

// ClearGame stops following the current game
func (s *Session) ClearGame() {
	s.CurrentGame = ""
	s.LastMoveCount = 0
	s.CurrentGameState = nil
}

// ShortGame is the game id cut to its first block for prompts
func (s *Session) ShortGame() string {
	if len(s.CurrentGame) > 8 {
		return s.CurrentGame[:8]
	}
	return s.CurrentGame
}
