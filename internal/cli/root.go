// Package cli defines the command-line surface of the app.
package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cadence/internal/config"
)

var (
	flagDebug bool
	flagDB    string
	flagLang  string
)

var rootCmd = &cobra.Command{
	Use:   "go-cadence",
	Short: "Relationship reminder scheduler",
	Long:  "Go Cadence keeps track of who to reach out to and when, turning per-contact cadences into reminders, a daily digest, and a calendar feed.",
}

// ExecuteContext runs the CLI under the given context. Logging is expected
// to be configured by the caller.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, config.FlagDebug, false, config.FlagDescDebug)
	rootCmd.PersistentFlags().StringVar(&flagDB, config.FlagDB, "", config.FlagDescDB)
	rootCmd.PersistentFlags().StringVar(&flagLang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

// Debug reports whether --debug was set; consulted by main before the
// command dispatch to pick the log level. Both the bare and the
// --debug=value spellings count, matching pflag.
func Debug(args []string) bool {
	flag := "--" + config.FlagDebug
	for _, a := range args {
		if a == flag {
			return true
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			b, err := strconv.ParseBool(v)
			return err == nil && b
		}
	}
	return false
}
