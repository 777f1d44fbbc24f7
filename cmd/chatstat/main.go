// Package main is the entry point for the chatstat TUI application.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"chatstat/internal/app"
	"chatstat/internal/config"
	"chatstat/internal/services"
	"chatstat/internal/ui/tabs/activity"
	"chatstat/internal/ui/tabs/info"
	"chatstat/internal/ui/tabs/overview"
	"chatstat/internal/ui/tabs/subjects"
	"chatstat/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize the service manager
	// This starts the background services: transcript fetching, statistics
	// aggregation and the chat-directory watcher
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Initialize tabs with shared state and services
	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	tabs := []app.Tab{
		overview.New(state),             // Tab 0: Overview - headline statistics
		activity.New(state),             // Tab 1: Activity - daily and hourly charts
		subjects.New(state, svcManager), // Tab 2: Characters - per-character list
		info.New(state, cfg),            // Tab 3: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 6. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 7. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 8. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`chatstat - Chat transcript statistics TUI

Usage:
  chatstat [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Overview, Activity, Characters, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select/confirm
  d               Cycle date range
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  HOST_API_URL      Chat host base URL (e.g. http://127.0.0.1:8000)
  HOST_API_KEY      Bearer token for the chat host API
  CHATS_DIR         Local chat export directory (alternative to the API)
  DATABASE_PATH     SQLite database path
  REFRESH_INTERVAL  Background refresh interval (default: 5m)
  NOTIFICATIONS     Desktop notifications on bursts of new messages (default: true)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/chatstat/.env
  - ~/.chatstat/.env`)
}
