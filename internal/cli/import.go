package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/engine"
	"github.com/tartampluch/go-cadence/internal/importer"
	"github.com/tartampluch/go-cadence/internal/notify"
	"github.com/tartampluch/go-cadence/internal/store"
	"github.com/tartampluch/go-cadence/internal/text"
	"github.com/zalando/go-keyring"
)

var (
	flagFile    string
	flagURL     string
	flagUser    string
	flagCadence string
	flagDays    int
	flagFrom    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import contacts from a vCard file or CardDAV URL",
	Long:  "Reads an address book and spreads the new contacts across the cadence period so the first reminders do not all land on the same day.",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagFile, config.FlagFile, "", config.FlagDescFile)
	importCmd.Flags().StringVar(&flagURL, config.FlagURL, "", config.FlagDescURL)
	importCmd.Flags().StringVar(&flagUser, config.FlagUser, "", config.FlagDescUser)
	importCmd.Flags().StringVar(&flagCadence, config.FlagCadence, string(engine.CadenceMonthly), config.FlagDescCad)
	importCmd.Flags().IntVar(&flagDays, config.FlagDays, 0, config.FlagDescDays)
	importCmd.Flags().StringVar(&flagFrom, config.FlagFrom, "", config.FlagDescFrom)
}

func runImport(cmd *cobra.Command, args []string) error {
	cadence := engine.Cadence(flagCadence)
	if !cadence.Known() {
		return fmt.Errorf("%s: %q", config.ErrUnknownCadence, flagCadence)
	}

	src := importer.SourceConfig{
		Cadence:    cadence,
		CustomDays: flagDays,
	}
	switch {
	case flagFile != "":
		src.Mode = config.SourceModeLocal
		src.LocalPath = flagFile
	case flagURL != "":
		src.Mode = config.SourceModeWeb
		src.WebURL = flagURL
		src.WebUser = flagUser
		if flagUser != "" {
			if pass, err := keyring.Get(config.KeyringService, flagUser); err == nil {
				src.WebPass = pass
			} else {
				slog.Debug(config.ErrKeyringRead,
					config.LogKeyComponent, config.CompCLI,
					config.LogKeyUser, flagUser,
					config.LogKeyError, err,
				)
			}
		}
	default:
		return fmt.Errorf("either --%s or --%s is required", config.FlagFile, config.FlagURL)
	}

	from := time.Now()
	if flagFrom != "" {
		parsed, err := time.Parse(config.DateFormatFullDash, flagFrom)
		if err != nil {
			return fmt.Errorf("%s: %q", config.ErrDateParse, flagFrom)
		}
		from = parsed
	}

	dbPath := flagDB
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

	slog.Info(config.MsgImportStarted,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyValue, src.Mode,
	)

	im := &importer.Importer{Fetcher: importer.NewHTTPFetcher()}
	batch, err := im.Read(cmd.Context(), src)
	if err != nil {
		return err
	}

	clock := engine.RealClock{}
	registry := notify.NewMemory()
	sched := &engine.Scheduler{
		Clock: clock,
		Store: db,
		Resolver: &engine.Resolver{
			Clock:     clock,
			Delivery:  registry,
			Profile:   engine.RegularProfile,
			Texts:     text.NewTranslator(flagLang),
			Permitted: registry.Permitted,
		},
	}

	prefs, err := db.Preferences()
	if err != nil {
		return err
	}
	imported, err := sched.ImportBatch(cmd.Context(), batch, from, prefs)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d contacts on a %s cadence\n", len(imported), cadence)
	return nil
}
