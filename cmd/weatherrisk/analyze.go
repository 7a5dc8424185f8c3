package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weatherwise-risk/internal/analysis"
	"github.com/couchcryptid/weatherwise-risk/internal/config"
	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

// requestFlags are shared by the forecast and historical commands.
type requestFlags struct {
	lat      float64
	lon      float64
	activity string
	crop     string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", analysis.DefaultLat, "latitude in degrees")
	cmd.Flags().Float64Var(&f.lon, "lon", analysis.DefaultLon, "longitude in degrees")
	cmd.Flags().StringVar(&f.activity, "activity", analysis.DefaultActivity, "harvest, planting, spraying, or event")
	cmd.Flags().StringVar(&f.crop, "crop", analysis.DefaultCrop, "crop label shown for field work")
}

func (f *requestFlags) validate() error {
	if f.lat < -90 || f.lat > 90 {
		return fmt.Errorf("--lat %g out of range [-90, 90]", f.lat)
	}
	if f.lon < -180 || f.lon > 180 {
		return fmt.Errorf("--lon %g out of range [-180, 180]", f.lon)
	}
	return nil
}

var (
	forecastFlags   requestFlags
	historicalFlags requestFlags
	historicalDate  string
	historicalOff   bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Assess the 7-day forecast for an activity",
	Long:  `Build the deterministic 7-day forecast for a point and print the risk assessment as JSON.`,
	Args:  cobra.NoArgs,
	RunE:  runForecast,
}

var historicalCmd = &cobra.Command{
	Use:   "historical",
	Short: "Analyze twenty years of history for a target date",
	Long: `Analyze the target calendar date across 2004-2023 and print the planning
analysis as JSON. Observed years from Meteomatics are merged in when
credentials are configured, unless --offline is set.`,
	Args: cobra.NoArgs,
	RunE: runHistorical,
}

func init() {
	forecastFlags.register(forecastCmd)

	historicalFlags.register(historicalCmd)
	historicalCmd.Flags().StringVar(&historicalDate, "date", "", "target date, YYYY-MM-DD")
	historicalCmd.Flags().BoolVar(&historicalOff, "offline", false, "never call the observed history provider")
	_ = historicalCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(historicalCmd)
}

// commandMetrics registers collectors once per process; one-shot commands
// never expose them.
var commandMetrics = sync.OnceValue(observability.NewMetrics)

func newCommandService(offline bool) (*analysis.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := observability.NewCommandLogger(cfg, os.Stderr)
	metrics := commandMetrics()

	opts, _ := providerOptions(cfg, logger, metrics, offline)
	return analysis.NewService(logger, metrics, opts...), nil
}

func runForecast(cmd *cobra.Command, _ []string) error {
	if err := forecastFlags.validate(); err != nil {
		return err
	}
	svc, err := newCommandService(true)
	if err != nil {
		return err
	}

	result := svc.Forecast(cmd.Context(), analysis.ForecastRequest{
		Lat:      forecastFlags.lat,
		Lon:      forecastFlags.lon,
		Activity: forecastFlags.activity,
		Crop:     forecastFlags.crop,
	})
	return printJSON(cmd.OutOrStdout(), result)
}

func runHistorical(cmd *cobra.Command, _ []string) error {
	if err := historicalFlags.validate(); err != nil {
		return err
	}
	svc, err := newCommandService(historicalOff)
	if err != nil {
		return err
	}

	result, err := svc.Historical(cmd.Context(), analysis.HistoricalRequest{
		Lat:        historicalFlags.lat,
		Lon:        historicalFlags.lon,
		TargetDate: historicalDate,
		Activity:   historicalFlags.activity,
		Crop:       historicalFlags.crop,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
