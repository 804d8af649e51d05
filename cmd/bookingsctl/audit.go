package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/jobs"
)

func auditCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report connected accounts the directory does not point at",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := jobs.AuditConnectedAccounts(cmd.Context(), a.accounts, a.directory, a.logger)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
