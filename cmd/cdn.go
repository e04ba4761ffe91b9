package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/output"
	"github.com/YouHengSaang/office365-cli/spo"
)

var (
	cdnType       string
	cdnEnabled    string
	cdnSetConfirm bool
)

var cdnCmd = &cobra.Command{
	Use:   "cdn",
	Short: "Manage the Office 365 CDN",
}

var cdnGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get the Office 365 CDN state",
	Example: `
  # Check whether the public CDN is enabled
  office365 spo cdn get

  # Check the private CDN
  office365 spo cdn get --type Private
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parsedType, err := spo.ParseCdnType(cdnType)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, client, err := adminClient(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := commandContext(cfg)
		defer cancel()

		enabled, err := client.GetTenantCdnEnabled(ctx, parsedType)
		if err != nil {
			return err
		}
		return output.PrintValue(cmd.OutOrStdout(), resolvedOutputFormat(cfg), parsedType.String()+"CdnEnabled", enabled)
	},
}

var cdnSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Enable or disable the Office 365 CDN",
	Long: `Enable or disable the Office 365 CDN for the tenant.

The --enabled value must be exactly true or false; anything else is rejected
before any request is sent.`,
	Example: `
  # Enable the public CDN
  office365 spo cdn set --enabled true --confirm

  # Disable the private CDN
  office365 spo cdn set --enabled false --type Private --confirm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parsedType, err := spo.ParseCdnType(cdnType)
		if err != nil {
			return err
		}
		enabled, err := parseBoolFlag("enabled", cdnEnabled)
		if err != nil {
			return err
		}

		verb := "Disable"
		if enabled {
			verb = "Enable"
		}
		if err := ensureConfirmed(cdnSetConfirm, fmt.Sprintf("%s the %s CDN?", verb, parsedType)); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, client, err := adminClient(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := commandContext(cfg)
		defer cancel()

		if err := client.SetTenantCdnEnabled(ctx, parsedType, enabled); err != nil {
			return err
		}
		fmt.Printf("%s CDN enabled set to %t\n", parsedType, enabled)
		return nil
	},
}

func init() {
	spoCmd.AddCommand(cdnCmd)
	cdnCmd.AddCommand(cdnGetCmd)
	cdnCmd.AddCommand(cdnSetCmd)

	cdnGetCmd.Flags().StringVar(&cdnType, "type", "Public", "CDN type: Public or Private")

	cdnSetCmd.Flags().StringVar(&cdnType, "type", "Public", "CDN type: Public or Private")
	cdnSetCmd.Flags().StringVarP(&cdnEnabled, "enabled", "e", "", "true to enable the CDN, false to disable it")
	cdnSetCmd.Flags().BoolVar(&cdnSetConfirm, "confirm", false, "Skip the confirmation prompt")
	_ = cdnSetCmd.MarkFlagRequired("enabled")
}
