package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/marsestate/internal/marsapi"
	"github.com/tinytelemetry/marsestate/internal/model"
	"github.com/tinytelemetry/marsestate/internal/socketrpc"
	"github.com/tinytelemetry/marsestate/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var socketPath string
	var source string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/marsestate/config.yml)")
	flag.StringVar(&source, "source", "", "listing source: http or socket")
	flag.StringVar(&socketPath, "socket", "", "override socket path to connect to the marsestate service (implies -source socket)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Mars Estate - Terminal Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if socketPath != "" {
		cfg.SocketPath = socketPath
		cfg.Source = sourceSocket
	}
	if source != "" {
		cfg.Source = source
		if err := cfg.validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fetcherCloser is a listings fetcher with an optional connection to release.
type fetcherCloser struct {
	model.ListingsFetcher
	close func() error
}

func newFetcher(cfg cliConfig) (fetcherCloser, error) {
	switch cfg.Source {
	case sourceSocket:
		client, err := socketrpc.Dial(cfg.SocketPath)
		if err != nil {
			return fetcherCloser{}, fmt.Errorf("cannot connect to marsestate service at %s: %w\nIs the service running? Start it with: marsestate", cfg.SocketPath, err)
		}
		return fetcherCloser{ListingsFetcher: client, close: client.Close}, nil
	default:
		client := marsapi.NewClient(cfg.APIURL, marsapi.WithTimeout(cfg.HTTPTimeout))
		return fetcherCloser{ListingsFetcher: client, close: func() error { return nil }}, nil
	}
}

func runTUI(cfg cliConfig) error {
	logger, cleanupLogger := openTUILogger()
	defer cleanupLogger()

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	defer fetcher.close()

	page := tui.NewOverviewPage(fetcher, tui.OverviewConfig{
		DefaultFilter:      cfg.filter,
		EmptyResultDone:    cfg.EmptyResultDone,
		DiscardStale:       cfg.DiscardStale,
		ReverseScrollWheel: cfg.ReverseScrollWheel,
		Logger:             logger,
	})
	app := tui.NewApp(page)
	defer app.Close()

	logger.Printf("tui: starting (source=%s, filter=%s)", cfg.Source, cfg.filter)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// openTUILogger writes the client log next to the service log; the terminal
// belongs to the UI.
func openTUILogger() (*log.Logger, func()) {
	discard := log.New(io.Discard, "", 0)

	home, err := os.UserHomeDir()
	if err != nil {
		return discard, func() {}
	}
	logDir := filepath.Join(home, ".local", "state", "marsestate")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(logDir, "marsestate-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return discard, func() {}
	}

	logger := log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	log.SetOutput(f)
	return logger, func() { _ = f.Close() }
}
