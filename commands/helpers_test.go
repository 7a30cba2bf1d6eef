package commands

import (
	"bytes"
	"testing"

	"github.com/penwyp/go-phase-monitor/internal/testing/fixtures"
	"github.com/penwyp/go-phase-monitor/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of cmd and its children to its default
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// executeCommand runs the CLI against server with a scratch HOME and returns stdout and stderr
func executeCommand(t *testing.T, server *fixtures.PhaseServer, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)
	t.Cleanup(util.CloseLogger)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	if server != nil {
		args = append(args, "--server", server.URL)
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newServer(t *testing.T) *fixtures.PhaseServer {
	t.Helper()
	server := fixtures.NewPhaseServer()
	t.Cleanup(server.Close)
	return server
}
