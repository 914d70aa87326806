package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/secureballot/cli/internal/client/api"
	"github.com/secureballot/cli/internal/client/config"
	"github.com/secureballot/cli/internal/client/session"
	"github.com/secureballot/cli/internal/client/storage"
	"github.com/secureballot/cli/internal/logging"
)

// sessionCellKey is the key the session snapshot lives under in the local
// key-value store.
const sessionCellKey = "session"

// App wires the Secure Ballot CLI together: config, local session store,
// API client, session controller, and the interactive prompt.
type App struct {
	config     *config.Config
	store      *session.Store
	controller *session.Controller
	nav        *routeTracker
	log        logging.Logger
	reader     *bufio.Reader
	medium     storage.Medium
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// The session store is optional: with no path (or an unusable file) the
	// session simply lives in memory for this process.
	var medium storage.Medium
	if cfg.SessionStorePath != "" {
		m, err := storage.NewSQLiteMedium(ctx, cfg.SessionStorePath, cfg.StoreWatchInterval)
		if err != nil {
			log.Warn(ctx, "session store unavailable, continuing without persistence", "error", err)
		} else {
			medium = m
		}
	}

	cell := storage.NewCell(ctx, medium, sessionCellKey, session.Snapshot{})
	store := session.NewStore(cell)
	if err := cell.StartWatch(ctx); err != nil {
		log.Warn(ctx, "session store watching disabled", "error", err)
	}

	apiClient := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, store.Token)

	nav := newRouteTracker(os.Stdout)
	controller := session.NewController(apiClient, store, nav, log)

	return &App{
		config:     cfg,
		store:      store,
		controller: controller,
		nav:        nav,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		medium:     medium,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.medium != nil {
			a.medium.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}
