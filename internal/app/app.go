package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/treetop/internal/config"
	"github.com/vancomm/treetop/internal/database"
	"github.com/vancomm/treetop/internal/middleware"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger       *slog.Logger
	router       *http.ServeMux
	db           *pgxpool.Pool
	ws           *config.WebSocket
	maxGridBytes int64
	migrations   fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	router := http.NewServeMux()

	app := &App{
		logger:     logger,
		router:     router,
		migrations: migrations,
	}

	return app
}

func (a *App) Start(ctx context.Context) error {
	maxGridBytes, err := config.MaxGridBytes()
	if err != nil {
		return err
	}

	a.maxGridBytes = maxGridBytes

	db, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()

	a.db = db

	ws, err := config.NewWebSocket(maxGridBytes)
	if err != nil {
		return err
	}

	a.ws = ws

	a.loadRoutes()

	addr := config.Port()
	server := a.newServer(ctx, addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	a.logger.Info("server listening", slog.String("addr", addr))

	return g.Wait()
}

// newServer serves the router on addr. Requests inherit the values of ctx but
// not its cancellation, so in-flight requests keep running while Shutdown
// drains them.
func (a *App) newServer(ctx context.Context, addr string) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Recover(a.logger),
			middleware.Logging(a.logger),
			middleware.Cors(),
		),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}
}
