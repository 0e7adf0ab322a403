package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/room-status/internal/config"
	"github.com/DoyleJ11/room-status/internal/httpapi"
	"github.com/DoyleJ11/room-status/internal/logger"
	"github.com/DoyleJ11/room-status/internal/poll"
	"github.com/DoyleJ11/room-status/internal/render"
	"github.com/DoyleJ11/room-status/internal/roomclient"
	"github.com/DoyleJ11/room-status/internal/term"
	"github.com/DoyleJ11/room-status/internal/view"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "roomview",
		Usage: "live seating layout of a computer room",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "poll the room backend and serve the layout over HTTP",
				Action: serveLayout,
			},
			{
				Name:  "print",
				Usage: "fetch the layout once and print it",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "html", Usage: "print the rendered HTML instead of a table"},
					&cli.BoolFlag{Name: "plain", Usage: "disable colors"},
				},
				Action: printLayout,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (config.Config, *zap.Logger, *roomclient.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	client := roomclient.New(roomclient.Options{
		BaseURL: cfg.BackendURL,
		RoomID:  cfg.RoomID,
		Timeout: cfg.HTTPTimeout,
	}, log)
	return cfg, log, client, nil
}

func serveLayout(c *cli.Context) error {
	cfg, log, client, err := setup()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container := view.NewContainer(ctx, log)
	loop := poll.New(client, cfg.Policy(), log)

	handle, err := loop.Start(ctx, cfg.Viewer, container, cfg.PollInterval)
	if err != nil {
		return err
	}
	defer handle.Cancel()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.SetupRoutes(container, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("http server failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printLayout(c *cli.Context) error {
	cfg, log, client, err := setup()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer log.Sync()

	grid, err := client.FetchLayout(c.Context)
	if err != nil {
		return err
	}

	if !c.Bool("html") {
		term.Printer{Plain: c.Bool("plain")}.Print(os.Stdout, grid, cfg.Viewer)
		return nil
	}

	children, _ := render.New(client, nil, cfg.Policy(), log).Build(grid, cfg.Viewer)
	out, err := view.RenderHTML(children)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
