// Package main is the entry point for the jwt-debugger command
package main

import (
	"fmt"
	"os"

	"github.com/jrschumacher/jwt-debugger/cmd"
	"github.com/jrschumacher/jwt-debugger/internal/config"
	"github.com/jrschumacher/jwt-debugger/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.ExitUsage)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	cmd.Execute(cfg)
}
