package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/weightkeeper/internal/client/authflow"
	"github.com/dmitrijs2005/weightkeeper/internal/client/config"
	"github.com/dmitrijs2005/weightkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/weightkeeper/internal/client/repositories/measurements"
	"github.com/dmitrijs2005/weightkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/weightkeeper/internal/client/securestore"
	"github.com/dmitrijs2005/weightkeeper/internal/client/session"
	"github.com/dmitrijs2005/weightkeeper/internal/client/storage"
	"github.com/dmitrijs2005/weightkeeper/internal/client/vault"
	"github.com/dmitrijs2005/weightkeeper/internal/common"
	"github.com/dmitrijs2005/weightkeeper/internal/filex"
	"github.com/dmitrijs2005/weightkeeper/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const dbFileName = "weightkeeper.db"

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	vault    *vault.Vault
	session  *session.Gate
	flows    *authflow.Orchestrator
	weights  measurements.Repository
	registry *prometheus.Registry
	lines    *lineReader
	out      io.Writer
	unlocked bool
}

type AppOption func(*appIO)

type appIO struct {
	in  io.Reader
	fd  int
	out io.Writer
}

// WithIO replaces stdin and stdout. Input from r is never treated as a
// terminal.
func WithIO(r io.Reader, w io.Writer) AppOption {
	return func(o *appIO) {
		o.in, o.fd, o.out = r, -1, w
	}
}

// NewApp opens the data directory, runs migrations and wires the passcode
// flows. Close releases the database.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, opts ...AppOption) (*App, error) {
	if log == nil {
		log = logging.Nop{}
	}
	streams := appIO{in: os.Stdin, fd: int(os.Stdin.Fd()), out: os.Stdout}
	for _, opt := range opts {
		opt(&streams)
	}

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrLocalDataNotAvailable, err)
	}

	db, err := storage.InitDatabase(ctx, filepath.Join(dir, dbFileName))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrLocalDataNotAvailable, err)
	}

	app, err := wire(ctx, c, log, db, dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.lines = newLineReader(streams.in, streams.fd)
	app.out = streams.out
	return app, nil
}

func wire(ctx context.Context, c *config.Config, log logging.Logger, db *sql.DB, dir string) (*App, error) {
	key, err := securestore.LoadOrCreateDeviceKey(dir)
	if err != nil {
		return nil, fmt.Errorf("device key: %w", err)
	}
	store, err := securestore.NewEncryptedStore(metadata.NewSQLiteRepository(db), key)
	if err != nil {
		return nil, err
	}

	weights := measurements.NewSQLiteRepository(db, log)
	v := vault.New(store, weights, log)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	flows := authflow.New(v, newBiometricGate(ctx, c, log),
		authflow.WithLogger(log),
		authflow.WithMetrics(m),
		authflow.WithSettleDelay(c.SettleDelay),
	)

	return &App{
		config:   c,
		log:      log,
		db:       db,
		vault:    v,
		session:  session.NewGate(v, log, session.WithMetrics(m)),
		flows:    flows,
		weights:  weights,
		registry: reg,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run routes between onboarding, the unlock screen and the main prompt until
// the user leaves or input ends.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to weightkeeper (type 'help' at the main prompt)")

	route, err := a.session.Resolve(ctx)
	if err != nil {
		return err
	}

	for {
		a.log.Debug(ctx, "route", "route", route.String())

		switch route {
		case session.RouteOnboarding:
			a.unlocked = false
			res, err := a.runScreen(ctx, a.flows.StartOnboarding)
			if err != nil || res == resultClosed {
				return quietEOF(err)
			}
			if route, err = a.session.CompleteOnboarding(ctx); err != nil {
				return err
			}
			// the user just proved they know the passcode
			if route == session.RouteEnterPasscode {
				route = session.RouteMain
			}

		case session.RouteEnterPasscode:
			a.unlocked = false
			res, err := a.runScreen(ctx, a.flows.StartEntry)
			if err != nil || res == resultClosed {
				return quietEOF(err)
			}
			if res == resultVerified {
				route = session.RouteMain
				continue
			}
			fmt.Fprintln(a.out, "Passcode and measurements erased.")
			if route, err = a.session.Resolve(ctx); err != nil {
				return err
			}

		default:
			a.unlocked = true
			exit, err := runREPL(ctx, a, a.status, a.lines.ReadLine, a.out)
			if err != nil {
				return quietEOF(err)
			}
			switch exit {
			case exitQuit:
				return nil
			case exitSignedOut:
				route = session.RouteOnboarding
			case exitLocked:
				if route, err = a.session.Resolve(ctx); err != nil {
					return err
				}
			}
		}
	}
}

func (a *App) status() string {
	if a.unlocked {
		return "unlocked"
	}
	return "locked"
}
