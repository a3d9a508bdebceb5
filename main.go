package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/c-bata/db-tutorial/pkg/logging"
	"github.com/c-bata/db-tutorial/pkg/repl"
	"github.com/c-bata/db-tutorial/pkg/table"
	"github.com/c-bata/db-tutorial/pkg/tui"
)

type Configuration struct {
	DatabaseFile string
	TUI          bool
	LogLevel     string
	LogFile      string
	LogFormat    string
	ScriptFile   string
}

func main() {
	config := parseArguments()

	if config.DatabaseFile == "" {
		fmt.Fprintln(os.Stderr, "Must supply a database filename.")
		os.Exit(1)
	}

	if err := setupLogging(config); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	tbl, err := table.NewTable(config.DatabaseFile)
	if err != nil {
		logging.WithError(err).Error("failed to open database", "file", config.DatabaseFile)
		os.Exit(1)
	}
	defer tbl.Close()

	if config.ScriptFile != "" {
		quit, err := runScript(tbl, config.ScriptFile)
		if err != nil {
			logging.WithError(err).Error("script failed", "script", config.ScriptFile)
			os.Exit(1)
		}
		if quit {
			return
		}
	}

	if config.TUI {
		showSplashScreen()
		err = tui.Run(tbl)
	} else {
		err = repl.NewREPL(tbl, os.Stdin, os.Stdout).Run()
	}
	if err != nil {
		logging.WithError(err).Error("session failed")
		os.Exit(1)
	}
}

// parseArguments processes command-line flags. The database filename is
// the one positional argument.
func parseArguments() Configuration {
	var config Configuration

	flag.BoolVar(&config.TUI, "tui", false, "Start the full-screen terminal UI instead of the line REPL")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&config.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	flag.StringVar(&config.LogFormat, "log-format", "text", "Log format (text or json)")
	flag.StringVar(&config.ScriptFile, "script", "", "Execute statements from this file before the session starts")

	flag.Parse()

	config.DatabaseFile = flag.Arg(0)
	return config
}

// setupLogging wires the global logger from the flags
func setupLogging(config Configuration) error {
	var level logging.LogLevel
	switch strings.ToLower(config.LogLevel) {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	default:
		level = logging.LevelInfo
	}

	return logging.Init(logging.Config{
		Level:      level,
		OutputPath: config.LogFile,
		Format:     config.LogFormat,
	})
}

// showSplashScreen displays a short banner before the TUI takes over
func showSplashScreen() {
	splash := `
  ┌──────────────────────────────────┐
  │  db-tutorial                     │
  │  a tiny sqlite-style row store   │
  └──────────────────────────────────┘
`

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	fmt.Println(style.Render(splash))
}

// runScript feeds statements from a file through the same dispatch the
// interactive session uses. A ".exit" inside the script ends the
// program; otherwise the interactive session starts afterwards.
func runScript(tbl *table.Table, filename string) (bool, error) {
	f, err := os.Open(filename)
	if err != nil {
		return false, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := repl.Dispatch(tbl, line, os.Stdout)
		if err != nil {
			return quit, err
		}
		if quit {
			return true, nil
		}
	}

	return false, scanner.Err()
}
