package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-phase-monitor/internal/application/monitor"
	"github.com/penwyp/go-phase-monitor/internal/data/client"
	"github.com/penwyp/go-phase-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Server related
	serverURL      string
	requestTimeout time.Duration

	// Display related
	timezone string

	rootCmd = &cobra.Command{
		Use:   "go-phase-monitor",
		Short: "Live phase timers for production stations",
		Long: `go-phase-monitor watches the process-logic server and shows how long each phase
of a production station has been running.

Examples:
  go-phase-monitor watch --stations Press,Weld          # Live console for two stations
  go-phase-monitor watch --stations-file stations.yaml  # Tabs follow the file
  go-phase-monitor status -o json                       # One-shot phase activity
  go-phase-monitor variables motor                      # Search the variable catalog
  go-phase-monitor push press.yaml --dry-run            # Check a logic document
  go-phase-monitor download Press                       # Save the station's CSV log`,
		SilenceUsage: true,
	}
)

const (
	defaultLogFile = "~/.go-phase-monitor/logs/app.log"
	envServerURL   = "PHASE_MONITOR_SERVER"
)

func init() {
	// Server configuration
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(),
		"Process-logic server URL (env "+envServerURL+")")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", monitor.DefaultRequestTimeout,
		"HTTP request timeout")

	// Display configuration
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for displayed times (e.g., Europe/Berlin, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func Execute() error {
	return rootCmd.Execute()
}

func defaultServerURL() string {
	if v := strings.TrimSpace(os.Getenv(envServerURL)); v != "" {
		return v
	}
	return monitor.DefaultServerURL
}

// setup initializes logging and the time provider shared by all commands
func setup() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	return nil
}

// newClient sets up the command environment and returns a server client
func newClient() (*client.Client, error) {
	if err := setup(); err != nil {
		return nil, err
	}
	return client.New(serverURL, requestTimeout)
}

// requestContext bounds one-shot commands by the request timeout
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, requestTimeout)
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
