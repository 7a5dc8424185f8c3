package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/weatherwise-risk/internal/domain"
)

var atFlag string

var rootCmd = &cobra.Command{
	Use:   "weatherrisk",
	Short: "WeatherWise weather risk engine",
	Long: `weatherrisk scores near-term weather risk for farm work and outdoor
events and analyzes twenty years of history for long-range planning.`,
	SilenceUsage:      true,
	PersistentPreRunE: freezeClock,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&atFlag, "at", "", "evaluate as of this RFC3339 instant instead of now")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// freezeClock pins the engine clock when --at is given so output is
// reproducible.
func freezeClock(_ *cobra.Command, _ []string) error {
	if atFlag == "" {
		return nil
	}
	at, err := time.Parse(time.RFC3339, atFlag)
	if err != nil {
		return fmt.Errorf("invalid --at: %w", err)
	}
	domain.SetClock(clockwork.NewFakeClockAt(at))
	return nil
}
