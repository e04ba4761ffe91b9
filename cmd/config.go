package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage office365-cli configuration file values.",
	Long: `Create and display the office365-cli configuration file.

The configuration stores application-wide values:
- auth.client_id / auth.authority
- output.format
- http.timeout_seconds / http.requests_per_second`,
	Example: `
  # Create default config in $HOME/.office365-cli.yaml
  office365 config create

  # Show active config and source file
  office365 config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
