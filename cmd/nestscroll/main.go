package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/nestscroll/internal/config"
	"github.com/jask/nestscroll/internal/database"
	"github.com/jask/nestscroll/internal/database/repository"
	"github.com/jask/nestscroll/internal/scroll"
	"github.com/jask/nestscroll/internal/service"
	"github.com/jask/nestscroll/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init-config":
			if err := config.Save(cfg); err != nil {
				log.Fatalf("init config: %v", err)
			}
			fmt.Printf("wrote %s\n", config.Path())
			return
		default:
			log.Fatalf("unknown command %q (want init-config)", os.Args[1])
		}
	}

	if cfg.Debug.LogFile != "" {
		f, err := tea.LogToFile(cfg.Debug.LogFile, "nestscroll")
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	states := &service.StateService{States: repository.NewScrollStateRepo(db)}

	opts := []scroll.Option{
		scroll.WithDecay(scroll.NewDecay(cfg.Scroll.FrictionMultiplier, cfg.Scroll.VelocityThreshold)),
		scroll.WithFrames(scroll.IntervalFrames(cfg.Scroll.FrameInterval)),
		scroll.WithLogger(log.Default()),
	}
	st, ok, err := states.Restore(ctx, cfg.State.Name)
	switch {
	case err != nil:
		log.Printf("warn: starting expanded, could not restore %q: %v", cfg.State.Name, err)
	case ok:
		opts = append(opts, scroll.WithState(st))
	}

	coord, err := scroll.New(ctx, opts...)
	if err != nil {
		log.Fatalf("coordinator: %v", err)
	}
	defer coord.Close()

	if cfg.Debug.LogFile == "" {
		// the terminal belongs to the program from here on
		log.SetOutput(io.Discard)
	}
	p := tea.NewProgram(tui.New(ctx, cfg, coord, states), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
