package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/lunchbox/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/lunchbox/config.toml)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	sessionID := flag.String("session", "", "session id for favorites (optional, defaults to the parent shell)")
	mouse := flag.Bool("mouse", true, "enable mouse clicks")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		SessionID:  *sessionID,
		Mouse:      *mouse,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "lunchbox: %v\n", err)
		return 1
	}
	return 0
}
