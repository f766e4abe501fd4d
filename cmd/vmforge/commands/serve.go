package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge/pkg/api"
)

func newServeCommand(version string) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Starts the JSON API exposing family construction, catalog, validation, and template endpoints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			if a.cfg.Telemetry.MetricsEnabled {
				if err := a.telemetry.Metrics.StartMetricsServer(a.tcfg.Metrics); err != nil {
					return err
				}
			}

			addr := listenAddr
			if addr == "" {
				addr = a.cfg.Server.ListenAddress
			}

			var opts []api.Option
			if a.store != nil {
				opts = append(opts, api.WithStore(a.store))
			}
			server := api.NewServer(a.coordinator, a.telemetry.Logger, opts...)
			return server.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	return cmd
}
