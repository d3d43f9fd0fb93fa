// cmd/querydesk/main.go
package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"querydesk/config"
	"querydesk/internal/api"
	"querydesk/internal/logger"
	"querydesk/internal/session"
	"querydesk/internal/storage"
	"querydesk/internal/ui"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Redirect logs to a file: the terminal belongs to the TUI.
	logFile, err := os.OpenFile("querydesk.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		logger.SetOutput(logFile)
		defer logFile.Close()
	}
	customLog.Println("Starting querydesk...")

	// 3. Backend client and session controller
	client, err := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		customLog.Fatalf("Failed to build backend client: %v", err)
	}
	ctrl := session.NewController(client)

	// 4. Local prompt history (optional; the app works without it)
	promptDB, err := storage.ConnectPromptDB(cfg)
	if err != nil {
		customLog.Warnf("Prompt history unavailable: %v", err)
		promptDB = nil
	} else {
		defer func() {
			if err := promptDB.Close(); err != nil {
				customLog.Printf("Error closing prompt database: %v", err)
			}
		}()
	}

	// 5. Run the TUI
	program := tea.NewProgram(ui.New(ctrl, client, promptDB), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		customLog.Fatalf("UI error: %v", err)
	}
}
