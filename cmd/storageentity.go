package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/internal/tenanturl"
	"github.com/YouHengSaang/office365-cli/output"
	"github.com/YouHengSaang/office365-cli/spo"
)

var (
	storageEntityAppCatalogURL string
	storageEntityKey           string
	storageEntityValue         string
	storageEntityDescription   string
	storageEntityComment       string
	storageEntityConfirm       bool
	storageEntityListFile      string
	storageEntityListFormat    string
)

var storageEntityCmd = &cobra.Command{
	Use:   "storageentity",
	Short: "Manage tenant storage entities",
	Long: `Manage tenant properties stored on the app catalog site. Reading works
against any connection; set and remove require the tenant admin site.`,
}

var storageEntityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenant storage entities",
	Example: `
  # List all tenant properties
  office365 spo storageentity list --appCatalogUrl https://contoso.sharepoint.com/sites/appcatalog
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCatalogURL, err := tenanturl.Normalize(storageEntityAppCatalogURL)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, _, client, err := connectedClient(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := commandContext(cfg)
		defer cancel()

		entities, err := client.ListStorageEntities(ctx, appCatalogURL)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(entities))
		for key := range entities {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		table := output.Table{Headers: []string{"Key", "Value", "Description", "Comment"}}
		for _, key := range keys {
			entity := entities[key]
			table.Rows = append(table.Rows, []string{entity.Key, entity.Value, entity.Description, entity.Comment})
		}

		if err := output.PrintTable(cmd.OutOrStdout(), resolvedOutputFormat(cfg), table); err != nil {
			return err
		}
		return exportTable(table, storageEntityListFile, storageEntityListFormat)
	},
}

var storageEntityGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a tenant storage entity",
	Example: `
  # Read one tenant property
  office365 spo storageentity get --key AnalyticsId --appCatalogUrl https://contoso.sharepoint.com/sites/appcatalog
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCatalogURL, err := tenanturl.Normalize(storageEntityAppCatalogURL)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, _, client, err := connectedClient(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := commandContext(cfg)
		defer cancel()

		entity, err := client.GetStorageEntity(ctx, appCatalogURL, storageEntityKey)
		if err != nil {
			return err
		}
		return output.PrintObject(cmd.OutOrStdout(), resolvedOutputFormat(cfg), map[string]any{
			"Key":         entity.Key,
			"Value":       entity.Value,
			"Description": entity.Description,
			"Comment":     entity.Comment,
		})
	},
}

var storageEntitySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a tenant storage entity",
	Example: `
  # Create or update a tenant property
  office365 spo storageentity set --key AnalyticsId --value UA-123-1 --appCatalogUrl https://contoso.sharepoint.com/sites/appcatalog
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCatalogURL, err := tenanturl.Normalize(storageEntityAppCatalogURL)
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

		entity := spo.StorageEntity{
			Key:         storageEntityKey,
			Value:       storageEntityValue,
			Description: storageEntityDescription,
			Comment:     storageEntityComment,
		}
		if err := client.SetStorageEntity(ctx, appCatalogURL, entity); err != nil {
			return err
		}
		fmt.Printf("Storage entity %q saved\n", storageEntityKey)
		return nil
	},
}

var storageEntityRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a tenant storage entity",
	Example: `
  # Remove a tenant property without the prompt
  office365 spo storageentity remove --key AnalyticsId --appCatalogUrl https://contoso.sharepoint.com/sites/appcatalog --confirm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCatalogURL, err := tenanturl.Normalize(storageEntityAppCatalogURL)
		if err != nil {
			return err
		}

		if err := ensureConfirmed(storageEntityConfirm, fmt.Sprintf("Remove the storage entity %q?", storageEntityKey)); err != nil {
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

		if err := client.RemoveStorageEntity(ctx, appCatalogURL, storageEntityKey); err != nil {
			return err
		}
		fmt.Printf("Storage entity %q removed\n", storageEntityKey)
		return nil
	},
}

func init() {
	spoCmd.AddCommand(storageEntityCmd)
	storageEntityCmd.AddCommand(storageEntityListCmd)
	storageEntityCmd.AddCommand(storageEntityGetCmd)
	storageEntityCmd.AddCommand(storageEntitySetCmd)
	storageEntityCmd.AddCommand(storageEntityRemoveCmd)

	for _, command := range []*cobra.Command{storageEntityListCmd, storageEntityGetCmd, storageEntitySetCmd, storageEntityRemoveCmd} {
		command.Flags().StringVar(&storageEntityAppCatalogURL, "appCatalogUrl", "", "URL of the tenant app catalog site")
		_ = command.MarkFlagRequired("appCatalogUrl")
	}

	storageEntityListCmd.Flags().StringVar(&storageEntityListFile, "outputFile", "", "Export the list to this file")
	storageEntityListCmd.Flags().StringVar(&storageEntityListFormat, "outputFormat", "csv", "Export format: csv or xlsx")

	storageEntityGetCmd.Flags().StringVar(&storageEntityKey, "key", "", "Storage entity key")
	_ = storageEntityGetCmd.MarkFlagRequired("key")

	storageEntitySetCmd.Flags().StringVar(&storageEntityKey, "key", "", "Storage entity key")
	storageEntitySetCmd.Flags().StringVar(&storageEntityValue, "value", "", "Storage entity value")
	storageEntitySetCmd.Flags().StringVar(&storageEntityDescription, "description", "", "Storage entity description")
	storageEntitySetCmd.Flags().StringVar(&storageEntityComment, "comment", "", "Storage entity comment")
	_ = storageEntitySetCmd.MarkFlagRequired("key")
	_ = storageEntitySetCmd.MarkFlagRequired("value")

	storageEntityRemoveCmd.Flags().StringVar(&storageEntityKey, "key", "", "Storage entity key")
	storageEntityRemoveCmd.Flags().BoolVar(&storageEntityConfirm, "confirm", false, "Skip the confirmation prompt")
	_ = storageEntityRemoveCmd.MarkFlagRequired("key")
}
