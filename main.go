package main

import (
	"flag"
	"fmt"
	"os"

	"termatlas/internal/config"
	"termatlas/internal/logger"
)

func main() {
	settingsPath := flag.String("settings", "", "settings file path (default: OS config dir)")
	tileURL := flag.String("url", "", "XYZ tile URL template, overrides settings")
	logFile := flag.String("log", "", "log file path, overrides settings")
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings, using defaults: %v\n", err)
		settings = config.DefaultSettings()
	}
	if *tileURL != "" {
		settings.TileURL = *tileURL
	}
	if *logFile != "" {
		settings.LogFile = *logFile
	}

	log, err := logger.New(settings.LogLevel, settings.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	app, err := NewApp(settings, *settingsPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
