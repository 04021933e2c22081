package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured servers",
		Long: `List the servers defined in the config file, in name order.
The default server is marked with an asterisk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range cfg.ServerNames() {
				marker := " "
				if cfg.Main.Server != nil && *cfg.Main.Server == name {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s\t%s\n", marker, name, cfg.Servers[name])
			}
			return w.Flush()
		},
	}
}
