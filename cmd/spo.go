package cmd

import "github.com/spf13/cobra"

var spoCmd = &cobra.Command{
	Use:   "spo",
	Short: "Manage SharePoint Online",
}

func init() {
	rootCmd.AddCommand(spoCmd)
}
