// FILE: cmd/chess/main.go
// Package main runs interactive games on the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"chesssim/internal/cli"
	"chesssim/internal/config"
	"chesssim/internal/player"
	"chesssim/internal/service"
	"chesssim/internal/storage"
	clitransport "chesssim/internal/transport/cli"

	"github.com/adrg/xdg"
	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// readlineSource feeds commands and human moves from a readline instance
type readlineSource struct {
	rl *readline.Instance
}

func (s readlineSource) Line(prompt string) (string, error) {
	s.rl.SetPrompt(prompt)
	line, err := s.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.BindFlags(flag.CommandLine)
	saveConfig := flag.Bool("save-config", false, "Write the effective settings to the user config file")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	if *saveConfig {
		path, err := cfg.Save()
		if err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
		fmt.Printf("Config saved to %s\n", path)
	}

	var store *storage.Store
	if cfg.StoragePath != "" {
		store, err = storage.NewStore(cfg.StoragePath, false)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	svc := service.New(store)
	defer svc.Close()

	var (
		input player.LineSource
		out   io.Writer = os.Stdout
	)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		rlCfg := &readline.Config{
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		}
		if history, err := xdg.StateFile("chesssim/history"); err == nil {
			rlCfg.HistoryFile = history
		}
		rl, err := readline.NewEx(rlCfg)
		if err != nil {
			log.Fatalf("Failed to start line editor: %v", err)
		}
		defer rl.Close()
		input = readlineSource{rl: rl}
		out = rl.Stdout()
	} else {
		input = player.NewLineSource(os.Stdin, os.Stdout)
	}

	view := cli.New(input, out)
	theme := cfg.Theme
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		theme = string(cli.ThemeOff)
	}
	if err := view.SetTheme(theme); err != nil {
		log.Fatalf("%v", err)
	}

	handler := clitransport.New(svc, view, *cfg)

	view.ShowWelcome()
	handler.Run() // All game loop logic is in the handler
}
