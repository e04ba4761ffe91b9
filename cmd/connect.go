package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/auth"
	"github.com/YouHengSaang/office365-cli/internal/tenanturl"
)

var connectCmd = &cobra.Command{
	Use:   "connect <url>",
	Short: "Sign in to a SharePoint Online site",
	Long: `Sign in to SharePoint Online with the Azure AD device code flow.

The command prints a verification URL and a one-time code; finish the sign-in
in a browser on any device. The resulting tokens are cached locally and
renewed automatically until "office365 spo disconnect".

Tenant-level commands (serviceprincipal, theme, cdn, ...) require connecting
to the tenant admin site, https://<tenant>-admin.sharepoint.com.`,
	Example: `
  # Connect to the tenant admin site
  office365 spo connect https://contoso-admin.sharepoint.com

  # Connect to a regular site collection
  office365 spo connect https://contoso.sharepoint.com/sites/team
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		siteURL, err := tenanturl.Normalize(args[0])
		if err != nil {
			return err
		}
		resource, err := tenanturl.Resource(siteURL)
		if err != nil {
			return err
		}

		store, authenticator, err := openAuth(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		// A fresh sign-in replaces any previous connection and its tokens.
		if err := store.Clear(); err != nil {
			return err
		}

		// No request timeout here: the device code flow waits for the user
		// to finish signing in within the window Azure AD grants.
		if err := authenticator.Login(cmd.Context(), resource, cmd.OutOrStdout()); err != nil {
			return err
		}

		if err := store.SaveConnection(auth.Connection{
			SiteURL:     siteURL,
			ClientID:    cfg.Auth.ClientID,
			Authority:   cfg.Auth.Authority,
			ConnectedAt: time.Now(),
		}); err != nil {
			return err
		}

		fmt.Printf("Connected to %s\n", siteURL)
		return nil
	},
}

func init() {
	spoCmd.AddCommand(connectCmd)
}
