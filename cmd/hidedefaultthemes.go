package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/output"
)

var hideDefaultThemesEnabled string

var hideDefaultThemesCmd = &cobra.Command{
	Use:   "hidedefaultthemes",
	Short: "Manage visibility of the default themes",
}

var hideDefaultThemesGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get the hide-default-themes setting",
	Long:  `Show whether the built-in SharePoint themes are hidden from the theme picker.`,
	Example: `
  # Check whether default themes are hidden
  office365 spo hidedefaultthemes get
`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		hidden, err := client.GetHideDefaultThemes(ctx)
		if err != nil {
			return err
		}
		return output.PrintValue(cmd.OutOrStdout(), resolvedOutputFormat(cfg), "HideDefaultThemes", hidden)
	},
}

var hideDefaultThemesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the hide-default-themes setting",
	Long: `Hide or show the built-in SharePoint themes in the theme picker.

The --enabled value must be exactly true or false; anything else is rejected
before any request is sent.`,
	Example: `
  # Hide the default themes
  office365 spo hidedefaultthemes set --enabled true

  # Show the default themes again
  office365 spo hidedefaultthemes set -e false
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hide, err := parseBoolFlag("enabled", hideDefaultThemesEnabled)
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

		if err := client.SetHideDefaultThemes(ctx, hide); err != nil {
			return err
		}
		fmt.Printf("HideDefaultThemes set to %t\n", hide)
		return nil
	},
}

func init() {
	spoCmd.AddCommand(hideDefaultThemesCmd)
	hideDefaultThemesCmd.AddCommand(hideDefaultThemesGetCmd)
	hideDefaultThemesCmd.AddCommand(hideDefaultThemesSetCmd)

	hideDefaultThemesSetCmd.Flags().StringVarP(&hideDefaultThemesEnabled, "enabled", "e", "", "true to hide the default themes, false to show them")
	_ = hideDefaultThemesSetCmd.MarkFlagRequired("enabled")
}
