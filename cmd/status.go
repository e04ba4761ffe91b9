package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/auth"
	"github.com/YouHengSaang/office365-cli/internal/tenanturl"
	"github.com/YouHengSaang/office365-cli/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current connection",
	Example: `
  # Show the connected site and token state
  office365 spo status
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

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
			fmt.Println("Not connected to SharePoint Online.")
			return nil
		}

		result := map[string]any{
			"SiteUrl":     conn.SiteURL,
			"AdminSite":   tenanturl.IsAdminSite(conn.SiteURL),
			"ClientId":    conn.ClientID,
			"Authority":   conn.Authority,
			"ConnectedAt": conn.ConnectedAt.Format(time.RFC3339),
		}

		resource, err := tenanturl.Resource(conn.SiteURL)
		if err == nil {
			if token, ok, err := store.Token(resource); err == nil && ok {
				result["TokenExpiresAt"] = token.Expiry.Format(time.RFC3339)
				result["TokenExpired"] = time.Now().After(token.Expiry)
			}
		}

		return output.PrintObject(cmd.OutOrStdout(), resolvedOutputFormat(cfg), result)
	},
}

func init() {
	spoCmd.AddCommand(statusCmd)
}
