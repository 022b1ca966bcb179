package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/mosca-iot/hub/internal/config"
	"github.com/mosca-iot/hub/internal/logger"
	"github.com/mosca-iot/hub/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

// @title Mosca Hub API
// @version 1.0
// @description Incubator monitoring: sample ingest, threshold alerts, actuator control and history.
// @BasePath /api/v1
func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting Mosca Hub v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "mosca-hub")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// Create and start server
	srv := server.New(cfg, zl)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    __  ___                     ",
		"   /  |/  /___  ______________ _",
		"  / /|_/ / __ \\/ ___/ ___/ __ `/",
		" / /  / / /_/ (__  ) /__/ /_/ / ",
		"/_/  /_/\\____/____/\\___/\\__,_/  ",
		"..........................  hub " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
