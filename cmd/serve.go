package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/evanshandler/jukebox/internal/server"
	"github.com/evanshandler/jukebox/internal/session"
	"github.com/evanshandler/jukebox/internal/shared"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the jukebox web application",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the application in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// Serve runs the web application until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	sessions := session.NewManager()
	defer sessions.Close()
	sessions.StartSweep(config.Session.SweepInterval())

	app, err := server.NewApp(config, db, sessions, r.logger)
	if err != nil {
		return err
	}

	srv := server.NewServer(config.Server, app, r.logger)

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s", srv.Addr())
		if err := openBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case sig := <-stop:
		r.logger.Info("received signal", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return <-errs
}

// openBrowser launches the platform's default browser at url.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
