package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lpernett/godotenv"

	"github.com/fpt/scenebridge/internal/bridge"
	"github.com/fpt/scenebridge/internal/config"
	"github.com/fpt/scenebridge/internal/engine"
	"github.com/fpt/scenebridge/internal/interpret"
	"github.com/fpt/scenebridge/internal/telegram"
	pkgLogger "github.com/fpt/scenebridge/pkg/logger"
)

func printUsage() {
	fmt.Println("scenebridge - control a running scene engine with Telegram chat messages")
	fmt.Println()
	fmt.Println("Setup:")
	fmt.Println("  1. Create a Telegram bot via @BotFather and export TELEGRAM_BOT_TOKEN")
	fmt.Println("  2. Export ANTHROPIC_API_KEY")
	fmt.Println("  3. Start the scene engine (it creates the command socket)")
	fmt.Println("  4. Run scenebridge")
	fmt.Println()
	fmt.Println("Chat usage:")
	fmt.Println("  /start            capability summary")
	fmt.Println("  /entities         list current scene entities")
	fmt.Println("  any other text    interpreted and executed on the engine")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  \"make it rain\"              spawns blue flickering lights")
	fmt.Println("  \"make the lights red\"       recolors all lights")
	fmt.Println("  \"add a spotlight above\"     spawns a new light entity")
	fmt.Println()
}

func main() {
	var settingsPath = flag.String("settings", "", "Path to settings file")
	var socketPath = flag.String("socket", "", "Engine command socket path (overrides settings)")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level)")
	var help = flag.Bool("h", false, "Show this help message")

	flag.Usage = func() {
		printUsage()
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *socketPath != "" {
		cfg.SocketPath = *socketPath
	}

	logLevel := cfg.LogLevel
	if *verbose {
		logLevel = "debug"
	}
	logger := pkgLogger.NewLogger(pkgLogger.LogLevel(logLevel))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	contract, err := interpret.LoadContract()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translation contract error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chat := telegram.NewClient(cfg.TelegramToken, logger)
	me, err := chat.GetMe(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid Telegram bot token: %v\n", err)
		os.Exit(1)
	}

	eng := engine.NewClient(cfg.SocketPath, engine.DefaultTimeout, logger)
	translator := interpret.NewTranslator(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens, contract, logger)
	b := bridge.New(chat, eng, translator, cfg.PollTimeoutSec, cfg.Backoff(), logger)

	fmt.Println("Scene Engine Bridge")
	fmt.Printf("  Bot: @%s\n", me.Username)
	fmt.Printf("  Socket: %s\n", cfg.SocketPath)
	fmt.Printf("  Send messages to @%s on Telegram to control the engine.\n\n", me.Username)

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("bridge stopped", "error", err)
		os.Exit(1)
	}

	fmt.Println("\nShutting down.")
}
