package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var variablesLimit int

var variablesCmd = &cobra.Command{
	Use:   "variables [filter]",
	Short: "List variable names known to the server",
	Long: `Lists the variables the server has ingested. An optional filter matches names by
substring. Without --limit the server default applies (200, or 500 when filtering).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVariables,
}

func init() {
	rootCmd.AddCommand(variablesCmd)

	variablesCmd.Flags().IntVar(&variablesLimit, "limit", 0,
		"Maximum number of names (0 = server default, at most 2000)")
}

func runVariables(cmd *cobra.Command, args []string) error {
	var filter string
	if len(args) == 1 {
		filter = args[0]
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()

	names, err := c.Variables(ctx, filter, variablesLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no variables found")
	}
	return nil
}
