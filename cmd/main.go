package main

import (
	"fmt"
	"os"

	"leafdoctor-bot/config"
	"leafdoctor-bot/internal/infrastructure/storage"
)

// Version задаётся через -ldflags при сборке
var Version = "dev"

// isHelpOrVersion сообщает, что нужна только справка (без базы)
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return true
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

func main() {
	ctx, stop := runContext()
	defer stop()

	// Справка и версия не требуют конфигурации и базы
	if isHelpOrVersion() {
		if err := newCLIApp(&env{}).RunContext(ctx, os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	err = newCLIApp(newEnv(db, cfg)).RunContext(ctx, os.Args)
	db.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
