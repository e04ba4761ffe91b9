package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/config"
	"github.com/YouHengSaang/office365-cli/output"
	"github.com/YouHengSaang/office365-cli/spo"
)

var (
	servicePrincipalEnableConfirm  bool
	servicePrincipalDisableConfirm bool
)

var servicePrincipalCmd = &cobra.Command{
	Use:     "serviceprincipal",
	Aliases: []string{"sp"},
	Short:   "Manage the SharePoint Online service principal",
}

var servicePrincipalGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get the SharePoint Online service principal",
	Long:  `Show the state of the Azure AD service principal SharePoint Framework components authenticate through.`,
	Example: `
  # Check whether the service principal is enabled
  office365 spo serviceprincipal get
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

		principal, err := client.GetServicePrincipal(ctx)
		if err != nil {
			return err
		}
		return printServicePrincipal(cmd, cfg, principal)
	},
}

var servicePrincipalEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the SharePoint Online service principal",
	Long: `Enable the service principal so SharePoint Framework components can use
Azure AD-secured APIs.`,
	Example: `
  # Enable the service principal (requires interactive confirmation)
  office365 spo serviceprincipal enable

  # Enable without the prompt
  office365 spo serviceprincipal enable --confirm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setServicePrincipalEnabled(cmd, true, servicePrincipalEnableConfirm)
	},
}

var servicePrincipalDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the SharePoint Online service principal",
	Example: `
  # Disable the service principal without the prompt
  office365 spo serviceprincipal disable --confirm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setServicePrincipalEnabled(cmd, false, servicePrincipalDisableConfirm)
	},
}

func setServicePrincipalEnabled(cmd *cobra.Command, enabled, confirmed bool) error {
	verb := "Disable"
	if enabled {
		verb = "Enable"
	}
	if err := ensureConfirmed(confirmed, fmt.Sprintf("%s the SharePoint Online service principal?", verb)); err != nil {
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

	principal, err := client.SetServicePrincipalEnabled(ctx, enabled)
	if err != nil {
		return err
	}
	return printServicePrincipal(cmd, cfg, principal)
}

func printServicePrincipal(cmd *cobra.Command, cfg *config.Config, principal *spo.ServicePrincipal) error {
	return output.PrintObject(cmd.OutOrStdout(), resolvedOutputFormat(cfg), principal.Properties)
}

func init() {
	spoCmd.AddCommand(servicePrincipalCmd)
	servicePrincipalCmd.AddCommand(servicePrincipalGetCmd)
	servicePrincipalCmd.AddCommand(servicePrincipalEnableCmd)
	servicePrincipalCmd.AddCommand(servicePrincipalDisableCmd)

	servicePrincipalEnableCmd.Flags().BoolVar(&servicePrincipalEnableConfirm, "confirm", false, "Skip the confirmation prompt")
	servicePrincipalDisableCmd.Flags().BoolVar(&servicePrincipalDisableConfirm, "confirm", false, "Skip the confirmation prompt")
}
