/*
Copyright © 2025 YouHengSaang

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YouHengSaang/office365-cli/config"
)

var (
	cfgFile      string
	outputFormat string
	verboseFlag  bool
	debugFlag    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "office365",
	Short: "Manage Microsoft Office 365 from the command line.",
	Long: `
**********************************************
*              OFFICE 365 CLI                *
**********************************************

This CLI manages SharePoint Online tenant settings: the SharePoint Framework
service principal, tenant themes, the Office 365 CDN, tenant storage entities,
and external users.

Sign in once with "office365 spo connect", then run admin commands against
the connected tenant.
`,
	Example: `
  # Sign in to the tenant admin site
  office365 spo connect https://contoso-admin.sharepoint.com

  # Check whether the SharePoint Framework service principal is enabled
  office365 spo serviceprincipal get

  # Enable the service principal without the confirmation prompt
  office365 spo serviceprincipal enable --confirm

  # Hide the default themes from the theme picker
  office365 spo hidedefaultthemes set --enabled true

  # List tenant themes as text
  office365 spo theme list --output text

  # Export external users to Excel
  office365 spo externaluser list --outputFile ./external-users.xlsx --outputFormat xlsx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.office365-cli.yaml, then ./.office365-cli.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: json or text (default from config)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log request and response metadata")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log full request and response bodies")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".office365-cli" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".office365-cli")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// The config file is optional; defaults cover every key.
	_ = viper.ReadInConfig()
}

func initLogging() {
	level := log.WarnLevel
	if verboseFlag {
		level = log.DebugLevel
	}
	if debugFlag {
		level = log.TraceLevel
	}
	log.DefaultLogger = log.Logger{
		Level:  level,
		Writer: &log.ConsoleWriter{Writer: os.Stderr},
	}
}
