package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func onboardCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "onboard [companyUUID]",
		Short: "Print a fresh onboarding link, creating the connected account if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			link, err := a.connect.StartOnboarding(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if link.Created {
				fmt.Fprintf(cmd.ErrOrStderr(), "Created connected account %s\n", link.AccountID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), link.URL)
			return nil
		},
	}
}

func statusCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "status [companyUUID]",
		Short: "Print the live status of a company's connected account as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			status, err := a.connect.GetStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		},
	}
}
