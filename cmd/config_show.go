package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YouHengSaang/office365-cli/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  office365 config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded; showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("auth.client_id: %s\n", cfg.Auth.ClientID)
		fmt.Printf("auth.authority: %s\n", cfg.Auth.Authority)
		fmt.Printf("output.format: %s\n", cfg.Output.Format)
		fmt.Printf("http.timeout_seconds: %d\n", cfg.HTTP.TimeoutSeconds)
		fmt.Printf("http.requests_per_second: %g\n", cfg.HTTP.RequestsPerSecond)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
