package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/eventbus"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/upgrade"
	"github.com/vncsmyrnk/pollcontract/internal/config"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/services"
	"gopkg.in/yaml.v3"
)

func reportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report <poll-id>",
		Short: "Print the report of a poll from the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid poll id: %w", err)
			}
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}
			if cfg.Store == config.StoreMemory {
				return fmt.Errorf("report needs a persistent store, set store to %q or %q", config.StoreBadger, config.StorePostgres)
			}

			logger := slog.New(slog.DiscardHandler)
			store, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			contract := services.NewVotingContract(store, &eventbus.Recorder{}, upgrade.NewRegistry(), services.WithLogger(logger))
			report, err := contract.GetReport(cmd.Context(), domain.PollID(id))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output == "yaml" {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(report)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}
