package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/engine"
	"github.com/tartampluch/go-cadence/internal/feed"
	"github.com/tartampluch/go-cadence/internal/importer"
	"github.com/tartampluch/go-cadence/internal/notify"
	"github.com/tartampluch/go-cadence/internal/server"
	"github.com/tartampluch/go-cadence/internal/store"
	"github.com/tartampluch/go-cadence/internal/text"
)

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and calendar feed server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, config.FlagPort, config.DefaultPort, config.FlagDescPort)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.Server.Port = flagPort
	cfg.Notify.Language = flagLang
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	defer db.Close()

	clock := engine.RealClock{}
	registry := notify.NewMemory()
	texts := text.NewTranslator(cfg.Notify.Language)

	sched := &engine.Scheduler{
		Clock: clock,
		Store: db,
		Resolver: &engine.Resolver{
			Clock:     clock,
			Delivery:  registry,
			Profile:   engine.RegularProfile,
			Texts:     texts,
			Permitted: registry.Permitted,
		},
	}

	fb := &feed.Builder{
		Clock:      clock,
		Texts:      texts,
		WindowDays: cfg.Feed.WindowDays,
	}

	srv := server.New(db, sched, registry, fb, &importer.Importer{Fetcher: importer.NewHTTPFetcher()}, cfg.ListenAddr(), config.Version)

	// Re-resolve triggers for anchors that lapsed while the process was
	// down, then serve until the context is cancelled.
	prefs, err := db.Preferences()
	if err != nil {
		return err
	}
	if _, err := sched.RescheduleAll(cmd.Context(), prefs); err != nil {
		return err
	}

	return srv.Start(cmd.Context())
}
