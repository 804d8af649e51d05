package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
)

func directoryCmd(load appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Read or repair company account links",
	}

	cmd.AddCommand(directoryGetCmd(load))
	cmd.AddCommand(directoryLinkCmd(load))

	return cmd
}

func directoryGetCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "get [companyUUID]",
		Short: "Print the connected account linked to a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			accountID, err := a.directory.Get(cmd.Context(), args[0])
			if errors.Is(err, directory.ErrNotFound) {
				return fmt.Errorf("company %s has no connected account", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), accountID)
			return nil
		},
	}
}

// directoryLinkCmd never reassigns a company that is already linked.
func directoryLinkCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "link [companyUUID] [accountId]",
		Short: "Link an existing connected account to a company that has none",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, accountID := args[0], args[1]

			a, cleanup, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			stored, created, err := a.directory.SetIfAbsent(cmd.Context(), companyID, accountID)
			if err != nil {
				return err
			}

			switch {
			case created:
				fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to %s\n", companyID, accountID)
			case stored == accountID:
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already linked to %s\n", companyID, accountID)
			default:
				return fmt.Errorf("company %s is already linked to %s", companyID, stored)
			}
			return nil
		},
	}
}
