package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/auth"
)

var disconnectConfirm bool

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Sign out and clear cached tokens",
	Long: `Remove the current connection and every cached access and refresh token
from the local token store.`,
	Example: `
  # Sign out (requires interactive confirmation)
  office365 spo disconnect

  # Sign out without the prompt
  office365 spo disconnect --confirm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath, err := auth.DefaultStorePath()
		if err != nil {
			return err
		}
		store, err := auth.OpenStore(storePath)
		if err != nil {
			return err
		}
		defer store.Close()

		conn, found, err := store.Connection()
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("Not connected.")
			return nil
		}

		if err := ensureConfirmed(disconnectConfirm, fmt.Sprintf("Disconnect from %s and clear cached tokens?", conn.SiteURL)); err != nil {
			return err
		}

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Printf("Disconnected from %s\n", conn.SiteURL)
		return nil
	},
}

func init() {
	spoCmd.AddCommand(disconnectCmd)

	disconnectCmd.Flags().BoolVar(&disconnectConfirm, "confirm", false, "Skip the confirmation prompt")
}
