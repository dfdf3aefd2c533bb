package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/dmelnik/chatty/internal/app"
	"github.com/dmelnik/chatty/internal/config"
	"github.com/dmelnik/chatty/internal/profile"
	"github.com/dmelnik/chatty/internal/tui"
)

func main() {
	serverFlag := flag.String("server", "", "chat service base URL (overrides config)")
	pushFlag := flag.String("push", "", "push channel URL (overrides derived endpoint)")
	flag.Parse()

	serverURL := config.Resolve(*serverFlag, profile.ConfigPath())
	pushURL := *pushFlag
	if pushURL == "" {
		if cfg, err := config.Load(profile.ConfigPath()); err == nil {
			pushURL = cfg.PushURL
		}
	}

	// The TUI owns the terminal; fx must not write to stderr.
	var ui *tui.App
	fxApp := fx.New(
		app.Module(app.Params{ServerURL: serverURL, PushURL: pushURL}),
		fx.Populate(&ui),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	runErr := ui.Run()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	_ = fxApp.Stop(stopCtx)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
