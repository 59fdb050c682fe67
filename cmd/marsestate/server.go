package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/marsestate/internal/catalog"
	"github.com/tinytelemetry/marsestate/internal/duckdb"
	"github.com/tinytelemetry/marsestate/internal/httpserver"
	"github.com/tinytelemetry/marsestate/internal/model"
	"github.com/tinytelemetry/marsestate/internal/socketrpc"
)

// runServer opens the store, seeds it and serves the listings API until a
// signal arrives.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	seeded, err := seedStore(store, cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to seed listings: %w", err)
	}

	var apiServer *httpserver.Server
	if cfg.APIEnabled {
		apiServer = httpserver.NewServer(cfg.APIAddr, store)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Socket RPC serves the TUI; the HTTP API still works without it.
	sockServer := socketrpc.NewServer(cfg.SocketPath, store)
	sockOK := true
	if err := sockServer.Start(); err != nil {
		log.Printf("Warning: failed to start socket server: %v", err)
		sockOK = false
	} else {
		defer sockServer.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	count, _ := store.ListingCount()
	printStartupBanner(cfg, bannerState{listings: count, seeded: seeded, socket: sockOK})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
			cancel()
		case <-gctx.Done():
			return nil
		}

		// Second signal or a stuck shutdown forces exit.
		go func() {
			deadline := time.NewTimer(10 * time.Second)
			defer deadline.Stop()
			select {
			case <-sigCh:
				fmt.Println("\nForce shutdown.")
			case <-deadline.C:
				fmt.Println("Shutdown timed out, forcing exit.")
			}
			cleanupSocket(cfg.SocketPath)
			os.Exit(1)
		}()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}
	log.Printf("server: stopped")
	return nil
}

// seedStore imports the catalog when the store is empty. It reports how many
// listings were imported.
func seedStore(store model.ListingStore, catalogPath string) (int, error) {
	count, err := store.ListingCount()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	var listings []model.Listing
	if catalogPath != "" {
		listings, err = catalog.Load(catalogPath)
	} else {
		listings, err = catalog.Default()
	}
	if err != nil {
		return 0, err
	}

	if err := store.UpsertListings(listings); err != nil {
		return 0, err
	}
	log.Printf("catalog: imported %d listings", len(listings))
	return len(listings), nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "marsestate")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "marsestate.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

type bannerState struct {
	listings int64
	seeded   int
	socket   bool
}

func printStartupBanner(cfg appConfig, st bannerState) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rust := lipgloss.NewStyle().Foreground(lipgloss.Color("#C1440E"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := rust.Bold(true).Render(`
    ╔╦╗╔═╗╦═╗╔═╗  ╔═╗╔═╗╔╦╗╔═╗╔╦╗╔═╗
    ║║║╠═╣╠╦╝╚═╗  ║╣ ╚═╗ ║ ╠═╣ ║ ║╣
    ╩ ╩╩ ╩╩╚═╚═╝  ╚═╝╚═╝ ╩ ╩ ╩ ╩ ╚═╝`)

	var lines []string
	lines = append(lines, "", logo, "    "+dim.Render("v"+version), "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "")

	lines = append(lines, bold.Render("    Gateway"), "")
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	if st.socket {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", dot, dim.Render("unavailable")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Storage"), "")
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "in-memory"
	}
	lines = append(lines, fmt.Sprintf("    %s  Storage        %s", check, dim.Render(shortenPath(dbPath))))
	lines = append(lines, fmt.Sprintf("    %s  Listings       %s", check, dim.Render(fmt.Sprintf("%d", st.listings))))
	if st.seeded > 0 {
		source := "embedded catalog"
		if cfg.CatalogPath != "" {
			source = shortenPath(cfg.CatalogPath)
		}
		lines = append(lines, fmt.Sprintf("    %s  Seeded         %s", check, dim.Render(fmt.Sprintf("%d from %s", st.seeded, source))))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
