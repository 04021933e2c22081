package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sharkusmanch/pc/internal/app"
	"github.com/sharkusmanch/pc/internal/config"
	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
	"github.com/sharkusmanch/pc/pkg/version"
)

func runPaste(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	server := domain.Unset[string]()
	var backendArgs []string
	if len(args) > 0 {
		server = domain.ParseOverride(args[0], true)
		backendArgs = args[1:]
	}
	cfg = config.ApplyServerOverride(cfg, server)

	client := http.NewClient(
		http.WithUserAgent(version.Get().UserAgent()),
		http.WithLogger(opts.logger),
	)

	dispatcher := app.NewDispatcher(cfg,
		app.WithHTTPClient(client),
		app.WithStdin(cmd.InOrStdin()),
		app.WithStdout(cmd.OutOrStdout()),
		app.WithLogger(opts.logger),
	)

	err = dispatcher.Run(cmd.Context(), backendArgs)
	if errors.Is(err, domain.ErrHelpDisplayed) {
		return nil
	}
	return err
}
