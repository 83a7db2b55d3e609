package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/temdb/temdb-go/cmd/temdb/commands"
	"github.com/temdb/temdb-go/logger"
)

var rootCmd = &cobra.Command{
	Use:   "temdb",
	Short: "TEMdb - electron microscopy metadata tooling",
	Long: `TEMdb - tooling for the TEM metadata database.

Available commands:
  fake    - Populate a TEMdb instance with synthetic test data
  version - Show version information

Examples:
  temdb fake http://localhost:8000            # Seed with defaults
  temdb fake http://localhost:8000 --seed 42  # Reproducible run
  temdb -v fake http://localhost:8000         # Verbose progress`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.FakeCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
