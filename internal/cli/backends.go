package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sharkusmanch/pc/internal/backend"
)

// NewListBackendsCmd creates the list-backends command.
func NewListBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-backends",
		Short: "List available backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range backend.Default.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// NewShowBackendCmd creates the show-backend command.
func NewShowBackendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-backend <backend>",
		Short: "Show a backend's documentation and options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := backend.Default.Lookup(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.TrimRight(d.Doc, "\n"))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Command line options:")

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, f := range d.Schema {
				fmt.Fprintf(w, "    -%s, --%s <%s>\t%s\t%s\n", f.Short, f.Name, f.ValueName, f.Policy, f.Usage)
			}
			return w.Flush()
		},
	}
}
