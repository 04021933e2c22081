package cli

import (
	"github.com/spf13/cobra"

	"github.com/sharkusmanch/pc/internal/config"
)

// NewDumpConfigCmd creates the dump-config command.
func NewDumpConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump-config",
		Short: "Print the configuration as currently used",
		Long: `Print the configuration that would be used, after --config and --histfile
are applied, as a TOML document that can be saved as a config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := config.Dump(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
