// FILE: cmd/chess-client/main.go
// Package main implements an interactive debugging client for the chess server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chesssim/internal/client/commands"
	"chesssim/internal/client/display"
	"chesssim/internal/client/session"

	"github.com/adrg/xdg"
	"github.com/chzyer/readline"
)

// lineReader answers command questions through the same readline instance as the main loop
type lineReader struct {
	rl *readline.Instance
}

func (l lineReader) Line(prompt string) (string, error) {
	l.rl.SetPrompt(prompt)
	line, err := l.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Chess server base URL")
	flag.Parse()

	rlCfg := &readline.Config{
		Prompt:          display.Prompt("chess"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if history, err := xdg.StateFile("chesssim/client_history"); err == nil {
		rlCfg.HistoryFile = history
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	s := session.New(*apiURL, lineReader{rl: rl}, rl.Stdout())

	display.Println(s.Out, display.Cyan, "Chess Debug Client")
	display.Println(s.Out, display.Cyan, "API: "+s.APIBaseURL)
	fmt.Fprintf(s.Out, "Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		if !registry.Execute(strings.TrimSpace(line)) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "chess"
	if s.CurrentGame != "" {
		promptStr += display.Yellow + " [" + display.White + s.ShortGame() + display.Yellow + "]"
	}

	// Add game state if available
	if g := s.CurrentGameState; g != nil {
		kind := g.Players.White
		if g.Turn == "b" {
			kind = g.Players.Black
		}
		promptStr += fmt.Sprintf(" - Turn:%s(%s)", display.ColorForTurn(g.Turn), kind)
		if g.State != "ongoing" {
			promptStr += " " + g.State
		}
	}

	return display.Prompt(promptStr)
}
