package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/output"
	"github.com/YouHengSaang/office365-cli/spo"
)

var (
	externalUserFilter     string
	externalUserPosition   int
	externalUserPageSize   int
	externalUserListFile   string
	externalUserListFormat string
)

var externalUserCmd = &cobra.Command{
	Use:   "externaluser",
	Short: "Manage external users",
}

var externalUserListCmd = &cobra.Command{
	Use:   "list",
	Short: "List external users in the tenant",
	Long: `List users from outside the organization that have been invited to the
tenant. Results are paged; use --position to fetch the next page.`,
	Example: `
  # List the first 10 external users
  office365 spo externaluser list

  # Search invited users by name
  office365 spo externaluser list --filter contoso --pageSize 50

  # Export the second page to Excel
  office365 spo externaluser list --position 1 --outputFile ./external-users.xlsx --outputFormat xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := spo.ExternalUserQuery{
			Filter:   externalUserFilter,
			Position: externalUserPosition,
			PageSize: externalUserPageSize,
		}
		if err := query.Validate(); err != nil {
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

		page, err := client.ListExternalUsers(ctx, query)
		if err != nil {
			return err
		}

		table := output.Table{Headers: []string{"DisplayName", "InvitedAs", "AcceptedAs", "InvitedBy", "WhenCreated"}}
		for _, user := range page.ExternalUserCollection {
			table.Rows = append(table.Rows, []string{
				user.DisplayName,
				user.InvitedAs,
				user.AcceptedAs,
				user.InvitedBy,
				user.WhenCreated,
			})
		}

		if err := output.PrintTable(cmd.OutOrStdout(), resolvedOutputFormat(cfg), table); err != nil {
			return err
		}
		if isTextFormat(resolvedOutputFormat(cfg)) {
			cmd.Printf("Total external users: %s\n", strconv.Itoa(page.TotalUserCount))
		}
		return exportTable(table, externalUserListFile, externalUserListFormat)
	},
}

func init() {
	spoCmd.AddCommand(externalUserCmd)
	externalUserCmd.AddCommand(externalUserListCmd)

	externalUserListCmd.Flags().StringVar(&externalUserFilter, "filter", "", "Limit results to users matching this text")
	externalUserListCmd.Flags().IntVar(&externalUserPosition, "position", 0, "Zero-based page index")
	externalUserListCmd.Flags().IntVar(&externalUserPageSize, "pageSize", 10, "Users per page (1-50)")
	externalUserListCmd.Flags().StringVar(&externalUserListFile, "outputFile", "", "Export the list to this file")
	externalUserListCmd.Flags().StringVar(&externalUserListFormat, "outputFormat", "csv", "Export format: csv or xlsx")
}
