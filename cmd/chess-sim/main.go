// Package main plays batches of computer games and prints the tally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"chesssim/internal/board"
	"chesssim/internal/config"
	"chesssim/internal/core"
	"chesssim/internal/service"
	"chesssim/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// Batches never prompt, so human sides from the shared config fall back to computer play
	if cfg.White == string(core.PlayerHuman) {
		cfg.White = string(core.PlayerRandom)
	}
	if cfg.Black == string(core.PlayerHuman) {
		cfg.Black = string(core.PlayerAI)
	}
	cfg.BindFlags(flag.CommandLine)
	boardPath := flag.String("board", "", "Start every game from the board in this file")
	record := flag.Bool("record", false, "Persist every game (requires -storage-path)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	if *record && cfg.StoragePath == "" {
		log.Fatal("Error: -record requires -storage-path")
	}

	simCfg := service.SimConfig{
		White:    core.PlayerKind(cfg.White),
		Black:    core.PlayerKind(cfg.Black),
		Games:    cfg.Games,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Depth:    cfg.Depth,
		MaxTurns: cfg.MaxTurns,
		Workers:  cfg.Workers,
		Seed:     cfg.Seed,
		Record:   *record,
	}
	if *boardPath != "" {
		if simCfg.Board, err = readBoard(*boardPath); err != nil {
			log.Fatalf("Failed to read board: %v", err)
		}
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Playing %d game(s): %s (White) vs %s (Black), %d worker(s)",
		simCfg.Games, simCfg.White, simCfg.Black, simCfg.Workers)

	tally, err := svc.Simulate(ctx, simCfg)
	if err != nil {
		log.Printf("Simulation stopped: %v", err)
	}
	if tally == nil {
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Games\t%d\n", tally.Games)
	fmt.Fprintf(w, "White wins (%s)\t%d\n", simCfg.White, tally.WhiteWins)
	fmt.Fprintf(w, "Black wins (%s)\t%d\n", simCfg.Black, tally.BlackWins)
	fmt.Fprintf(w, "Draws\t%d\n", tally.Draws)
	fmt.Fprintf(w, "Total turns\t%d\n", tally.TotalTurns)
	fmt.Fprintf(w, "Duration\t%s\n", tally.Duration)
	w.Flush()

	if err != nil {
		os.Exit(1)
	}
}

func readBoard(path string) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return board.NewDecoder(f).Decode()
}
