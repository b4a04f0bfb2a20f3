// Package wire provides dependency injection for the contacts application.
// It creates singleton services with one-time initialization.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	cliadapter "github.com/example/contacts/internal/adapters/cli"
	"github.com/example/contacts/internal/adapters/filesystem"
	"github.com/example/contacts/internal/adapters/sqlite"
	"github.com/example/contacts/internal/app"
	"github.com/example/contacts/internal/config"
	"github.com/example/contacts/internal/db"
	"github.com/example/contacts/internal/logging"
	"github.com/example/contacts/internal/metrics"
	"github.com/example/contacts/internal/ports/primary"
	"github.com/example/contacts/internal/ports/secondary"
)

var (
	cfg            *config.Config
	logger         *slog.Logger
	logCloser      io.Closer
	database       *sql.DB
	registry       *prometheus.Registry
	photoStore     *filesystem.PhotoStore
	contactRepo    *sqlite.ContactRepository
	contactService *app.ContactServiceImpl
	initErr        error
	once           sync.Once
)

// Init opens the store and builds the services from the resolved config.
// Only the first call does any work; later calls return its error.
func Init() error {
	once.Do(func() {
		c, err := config.Resolve()
		if err != nil {
			initErr = err
			return
		}
		initErr = initServices(c)
	})
	return initErr
}

// InitWithConfig is Init with an explicit config instead of the resolved one.
func InitWithConfig(c *config.Config) error {
	once.Do(func() {
		initErr = initServices(c)
	})
	return initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices(c *config.Config) error {
	cfg = c
	logger, logCloser = logging.New(c.Logging())

	var err error
	database, err = db.Open(c.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	photoStore, err = filesystem.NewPhotoStore(c.PhotoDir)
	if err != nil {
		database.Close()
		return err
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Create repository adapters (secondary ports) with the injected DB
	contactRepo = sqlite.NewContactRepository(database)

	executor := app.NewEffectExecutor(contactRepo, photoStore, m, logger)

	contactService, err = app.NewContactService(context.Background(), contactRepo, executor, m, logger)
	if err != nil {
		database.Close()
		return err
	}

	logger.Debug("services initialized",
		slog.String("db_path", c.DBPath),
		slog.String("photo_dir", photoStore.Dir()),
	)
	return nil
}

func mustInit() {
	if err := Init(); err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
}

// Config returns the config the services were built from.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the shared logger.
func Logger() *slog.Logger {
	mustInit()
	return logger
}

// DB returns the shared database handle.
func DB() *sql.DB {
	mustInit()
	return database
}

// Registry returns the Prometheus registry holding the service metrics.
func Registry() *prometheus.Registry {
	mustInit()
	return registry
}

// ContactService returns the singleton ContactService instance.
func ContactService() primary.ContactService {
	mustInit()
	return contactService
}

// ChangeDetector returns the detector for commits made by other processes.
func ChangeDetector() secondary.ChangeDetector {
	mustInit()
	return contactRepo
}

// ContactAdapter returns a new ContactAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ContactAdapter() *cliadapter.ContactAdapter {
	return ContactAdapterWithOutput(os.Stdout)
}

// ContactAdapterWithOutput returns a new ContactAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ContactAdapterWithOutput(out io.Writer) *cliadapter.ContactAdapter {
	mustInit()
	return cliadapter.NewContactAdapter(contactService, photoStore, out)
}

// Close waits for queued mutations, then closes the database and the log
// file. It is a no-op when nothing was initialized.
func Close() error {
	var errs []error
	if contactService != nil {
		errs = append(errs, contactService.Close(), database.Close())
	}
	if logCloser != nil {
		errs = append(errs, logCloser.Close())
		logCloser = nil
	}
	return errors.Join(errs...)
}
