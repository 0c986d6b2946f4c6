// Package main is the production entry point for the Ethereal Waves backend.
//
// Ethereal Waves indexes a music library, keeps user playlists and renders
// its interface strings from localized message tables:
// - Library scanning with a bounded worker pool
// - Playlists and view state persisted under XDG directories
// - Message catalogs in English, Dutch and French
//
// Build:
//
//	make build
//
// Run:
//
//	./build/ethereal-waves library update
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tejashwikalptaru/etherealwaves/internal/app"
	"github.com/tejashwikalptaru/etherealwaves/internal/cli"
	"github.com/tejashwikalptaru/etherealwaves/internal/config"
)

func main() {
	// Cancel a running library update on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func() (*app.Application, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return app.NewApplication(cfg)
	}

	if err := cli.New(factory).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cli.Name, err)
		stop()
		os.Exit(1)
	}
}
