package commands

import (
	"github.com/penwyp/go-phase-monitor/internal/application/monitor"
	"github.com/penwyp/go-phase-monitor/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

var (
	statusOutput   string
	statusStations []string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current phase activity of every station",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", formatter.FormatTable,
		"Output format (table, json, csv)")
	statusCmd.Flags().StringSliceVar(&statusStations, "station", nil,
		"Only show these stations, comma separated")
}

func runStatus(cmd *cobra.Command, args []string) error {
	f, err := formatter.New(statusOutput)
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()

	snapshot, err := c.Fetch(ctx)
	if err != nil {
		return err
	}

	return f.Format(cmd.OutOrStdout(), formatter.FromSnapshot(snapshot, monitor.NormalizeStations(statusStations)))
}
