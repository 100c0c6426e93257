package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/bankscope/internal/api"
	"github.com/jask/bankscope/internal/config"
	"github.com/jask/bankscope/internal/history"
	"github.com/jask/bankscope/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// History is optional: a read-only filesystem only costs the request log.
	var store *history.Store
	if cfg.History.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
			log.Printf("warn: history disabled, mkdir data dir: %v", err)
		} else if store, err = history.Open(cfg.History.Path); err != nil {
			log.Printf("warn: history disabled, open store: %v", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
		if _, err := store.Prune(ctx, cfg.History.Keep); err != nil {
			log.Printf("warn: prune history: %v", err)
		}
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	p := tea.NewProgram(tui.New(ctx, cfg, client, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
