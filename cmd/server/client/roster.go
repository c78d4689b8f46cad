package client

import (
	"fmt"

	"github.com/spf13/cobra"

	rosterv1alpha1 "github.com/KirkDiggler/roster-api/internal/handlers/roster/v1alpha1"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [name-or-number]",
	Short: "Look up a species",
	Long: `Look up a species by name or national dex number. Examples:

  lookup pikachu
  lookup 25`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := createRosterClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := client.LookupSpecies(ctx, &rosterv1alpha1.LookupSpeciesRequest{Query: args[0]})
		if err != nil {
			return fmt.Errorf("failed to look up species: %w", err)
		}
		return printJSON(resp)
	},
}

var addCmd = &cobra.Command{
	Use:   "add [name-or-number]",
	Short: "Add a species to your roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := createRosterClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := client.AddToRoster(ctx, &rosterv1alpha1.AddToRosterRequest{Query: args[0]})
		if err != nil {
			return fmt.Errorf("failed to add to roster: %w", err)
		}
		return printJSON(resp.Entry)
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List your roster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := createRosterClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := client.ListRoster(ctx, &rosterv1alpha1.ListRosterRequest{})
		if err != nil {
			return fmt.Errorf("failed to list roster: %w", err)
		}

		fmt.Printf("Roster (%d/%d):\n", resp.Count, resp.Capacity)
		for _, entry := range resp.Roster {
			fmt.Printf("  %s  %-12s  %v\n", entry.ID, entry.Name, entry.SelectedMoves.Names())
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End every session you own",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := createRosterClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := client.Logout(ctx, &rosterv1alpha1.LogoutRequest{})
		if err != nil {
			return fmt.Errorf("failed to log out: %w", err)
		}
		fmt.Printf("Ended %d session(s)\n", len(resp.EndedSessions))
		return nil
	},
}
