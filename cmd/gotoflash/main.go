// cmd/gotoflash/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/gotoflash/internal/app"
	"github.com/bethropolis/gotoflash/internal/config"
	"github.com/bethropolis/gotoflash/internal/logger"
)

const version = "0.1.0"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args, err := flags.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}
	filePath := ""
	if len(args) > 0 {
		filePath = args[0]
	}

	// --- Configuration ---
	cfg, cfgErr := config.Load(*flags.ConfigFilePath, &flags)

	// --- Logger Initialization ---
	var output io.Writer = os.Stderr
	if path := cfg.Logger.LogFilePath; path != "" && path != "-" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", path, err)
		}
		defer logFile.Close()
		output = logFile
	}
	logger.Init(cfg.Logger, output)

	logger.Infof("Starting %s %s...", config.AppName, version)
	if cfgErr != nil {
		logger.Warnf("Using default configuration: %v", cfgErr)
	}
	logger.Debugf("Flash: duration=%.2fs scope=%s style=%s touch=%s",
		cfg.Flash.Duration, cfg.Flash.Scope, cfg.Flash.Style, cfg.Flash.TouchMatch)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	// --- Create and Run App ---
	editorApp, err := app.NewApp(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	if err := editorApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
