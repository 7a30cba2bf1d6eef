package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/penwyp/go-phase-monitor/internal/application/monitor"
	"github.com/spf13/cobra"
)

var (
	watchStations       []string
	watchStationsFile   string
	watchStationCount   int
	watchPollInterval   time.Duration
	watchRenderInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show live phase timers",
	Long: `Opens a live console with one tab per station. The visible station is polled every
second and its phase timers are repainted five times per second.

Keys: ←/→ or h/l switch tabs, 1-9 jump to a tab, t toggles the layout,
? shows help, q/Esc/Ctrl+C quit.

When --stations-file is given, editing the file rebuilds the tabs.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// Station tabs
	watchCmd.Flags().StringSliceVar(&watchStations, "stations", nil,
		"Station names, comma separated (overrides --stations-file)")
	watchCmd.Flags().StringVar(&watchStationsFile, "stations-file", "",
		"YAML file listing stations; changes are applied live")
	watchCmd.Flags().IntVarP(&watchStationCount, "count", "n", 1,
		"Number of default station tabs (1-9)")

	// Loop cadences
	watchCmd.Flags().DurationVar(&watchPollInterval, "poll-interval", monitor.DefaultPollInterval,
		"Status poll interval")
	watchCmd.Flags().DurationVar(&watchRenderInterval, "render-interval", monitor.DefaultRenderInterval,
		"Timer repaint interval")
}

// watchConfig builds the console configuration from flags
func watchConfig() *monitor.MonitorConfig {
	config := &monitor.MonitorConfig{
		ServerURL:      serverURL,
		RequestTimeout: requestTimeout,
		PollInterval:   watchPollInterval,
		RenderInterval: watchRenderInterval,
		Stations:       watchStations,
		StationCount:   watchStationCount,
		Timezone:       timezone,
	}
	if watchStationsFile != "" {
		config.StationsFile = expandPath(watchStationsFile)
	}
	return config
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	orchestrator, err := monitor.NewOrchestrator(watchConfig(), cmd.OutOrStdout(), clockwork.NewRealClock())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return orchestrator.Run(ctx)
}
