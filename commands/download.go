package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-phase-monitor/internal/util"
	"github.com/spf13/cobra"
)

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <station>",
	Short: "Save a station's phase log as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "",
		"Output file (default <station>.csv, - for stdout)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	station := args[0]

	c, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()

	if downloadOutput == "-" {
		_, err := c.DownloadCSV(ctx, station, cmd.OutOrStdout())
		return err
	}

	path := downloadOutput
	if path == "" {
		path = station + ".csv"
	}
	path = expandPath(path)

	// Stage in the target directory and rename on success
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := c.DownloadCSV(ctx, station, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	util.LogInfo("Station log downloaded", util.F("station", station), util.F("bytes", n), util.F("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", n, path)
	return nil
}
