package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YouHengSaang/office365-cli/output"
	"github.com/YouHengSaang/office365-cli/spo"
)

var (
	themeName          string
	themeFilePath      string
	themeIsInverted    bool
	themeRemoveConfirm bool
	themeListFile      string
	themeListFormat    string
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage tenant themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom tenant themes",
	Example: `
  # List themes
  office365 spo theme list

  # Export themes to CSV
  office365 spo theme list --outputFile ./themes.csv
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

		themes, err := client.ListThemes(ctx)
		if err != nil {
			return err
		}

		sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })

		table := output.Table{Headers: []string{"Name", "IsInverted", "ColorSlots"}}
		for _, theme := range themes {
			table.Rows = append(table.Rows, []string{
				theme.Name,
				strconv.FormatBool(theme.IsInverted),
				strconv.Itoa(len(theme.Palette)),
			})
		}

		if err := output.PrintTable(cmd.OutOrStdout(), resolvedOutputFormat(cfg), table); err != nil {
			return err
		}
		return exportTable(table, themeListFile, themeListFormat)
	},
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a tenant theme",
	Example: `
  # Show a theme with its palette
  office365 spo theme get --name "Contoso Blue"
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

		theme, err := client.GetTheme(ctx, themeName)
		if err != nil {
			return err
		}

		palette := make(map[string]any, len(theme.Palette))
		for slot, color := range theme.Palette {
			palette[slot] = color
		}
		return output.PrintObject(cmd.OutOrStdout(), resolvedOutputFormat(cfg), map[string]any{
			"Name":       theme.Name,
			"IsInverted": theme.IsInverted,
			"Palette":    palette,
		})
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Add or update a tenant theme",
	Long: `Add a new tenant theme, or overwrite an existing one, from a JSON color
palette file.`,
	Example: `
  # Add or update a theme from a palette file
  office365 spo theme set --name "Contoso Blue" --filePath ./contoso-blue.json

  # Mark the palette as an inverted (dark) theme
  office365 spo theme set --name "Contoso Dark" --filePath ./contoso-dark.json --isInverted
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(themeFilePath)
		if err != nil {
			return fmt.Errorf("read theme palette file: %w", err)
		}
		palette, err := spo.ParseThemePalette(content)
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

		theme := spo.ThemeInfo{Name: themeName, IsInverted: themeIsInverted, Palette: palette}
		if err := client.SetTheme(ctx, theme); err != nil {
			return err
		}
		fmt.Printf("Theme %q saved\n", themeName)
		return nil
	},
}

var themeRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a tenant theme",
	Example: `
  # Remove a theme (requires interactive confirmation)
  office365 spo theme remove --name "Contoso Blue"

  # Remove without the prompt
  office365 spo theme remove --name "Contoso Blue" --confirm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfirmed(themeRemoveConfirm, fmt.Sprintf("Remove the theme %q?", themeName)); err != nil {
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

		if err := client.RemoveTheme(ctx, themeName); err != nil {
			return err
		}
		fmt.Printf("Theme %q removed\n", themeName)
		return nil
	},
}

func init() {
	spoCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeGetCmd)
	themeCmd.AddCommand(themeSetCmd)
	themeCmd.AddCommand(themeRemoveCmd)

	themeListCmd.Flags().StringVar(&themeListFile, "outputFile", "", "Export the list to this file")
	themeListCmd.Flags().StringVar(&themeListFormat, "outputFormat", "csv", "Export format: csv or xlsx")

	themeGetCmd.Flags().StringVar(&themeName, "name", "", "Theme name")
	_ = themeGetCmd.MarkFlagRequired("name")

	themeSetCmd.Flags().StringVar(&themeName, "name", "", "Theme name")
	themeSetCmd.Flags().StringVar(&themeFilePath, "filePath", "", "Path to the JSON color palette file")
	themeSetCmd.Flags().BoolVar(&themeIsInverted, "isInverted", false, "Mark the palette as inverted (dark theme)")
	_ = themeSetCmd.MarkFlagRequired("name")
	_ = themeSetCmd.MarkFlagRequired("filePath")

	themeRemoveCmd.Flags().StringVar(&themeName, "name", "", "Theme name")
	themeRemoveCmd.Flags().BoolVar(&themeRemoveConfirm, "confirm", false, "Skip the confirmation prompt")
	_ = themeRemoveCmd.MarkFlagRequired("name")
}
