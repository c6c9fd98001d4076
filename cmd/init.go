package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/fq/extract"
)

// initCmd: fq init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new rule file",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := initConfigurationFile(cfgFile)
		if err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
	},
}

func initConfigurationFile(configurationPath string) (string, error) {
	if configurationPath == "" {
		configurationPath = extract.DefaultConfigPath
	}
	return configurationPath, extract.WriteConfig(configurationPath, extract.DefaultConfig())
}
