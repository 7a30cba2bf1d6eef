package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-phase-monitor/internal/core/logic"
	"github.com/penwyp/go-phase-monitor/internal/core/monitoring"
	"github.com/penwyp/go-phase-monitor/internal/data/client"
	"github.com/penwyp/go-phase-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	pushDryRun bool
	pushWatch  bool
)

var pushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Validate and upload a station's logic document",
	Long: `Reads a logic document (YAML, or JSON when the file ends in .json), validates it and
stores it on the server.

Example document:
  station: Press
  logic:
    - target: VAR_Return
      vars:
        - name: M1_Home
        - name: M1_Fault
          not: true
          op: UND`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false,
		"Validate and print the document without uploading")
	pushCmd.Flags().BoolVarP(&pushWatch, "watch", "w", false,
		"Upload again whenever the file changes")
}

func runPush(cmd *cobra.Command, args []string) error {
	path := expandPath(args[0])
	out := cmd.OutOrStdout()

	if pushDryRun {
		if err := setup(); err != nil {
			return err
		}
		doc, err := logic.LoadFile(path)
		if err != nil {
			return err
		}
		printDocument(out, doc)
		return nil
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	if err := pushOnce(cmd, c, path); err != nil && !pushWatch {
		return err
	}
	if !pushWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndPush(ctx, cmd, c, path)
}

// watchAndPush uploads path after every change until ctx is done. Bad edits are reported
// and skipped.
func watchAndPush(ctx context.Context, cmd *cobra.Command, c *client.Client, path string) error {
	watcher, err := monitoring.NewFileWatcher([]string{path}, monitoring.DefaultSettle)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer watcher.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, press Ctrl+C to stop\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-watcher.Events():
			util.LogDebug("Logic document changed", util.F("path", ev.Path), util.F("op", ev.Operation))
			if err := pushOnce(cmd, c, path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "push failed: %v\n", err)
			}
		}
	}
}

func pushOnce(cmd *cobra.Command, c *client.Client, path string) error {
	doc, err := logic.LoadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()

	if err := c.SaveConfig(ctx, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d steps for station %s\n", len(doc.Logic), doc.Station)
	return nil
}

func printDocument(w io.Writer, doc *logic.Document) {
	fmt.Fprintf(w, "Station %s: %d steps\n", doc.Station, len(doc.Logic))
	for _, step := range doc.Logic {
		fmt.Fprintf(w, "  %d. %s = %s\n", step.Step, step.Target, step.Expression())
	}
}
