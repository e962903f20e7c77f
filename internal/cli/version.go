package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cadence/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf(config.MsgVersionOutput,
			config.AppName,
			config.Version,
			runtime.GOOS,
			runtime.GOARCH,
		)
	},
}
