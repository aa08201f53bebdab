package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/task3-labs/task3-go/pkg/operatorConfig"
)

var rootCmd = &cobra.Command{
	Use:   "task3",
	Short: "Publish and settle tasks with cross-chain bounties",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var configFile string
var Config *operatorConfig.OperatorConfig

func init() {
	cobra.OnInitialize(initConfigIfPresent)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	rootCmd.PersistentFlags().Bool(operatorConfig.Debug, false, `"true" or "false"`)
	rootCmd.PersistentFlags().Lookup(operatorConfig.Debug)

	viper.SetEnvPrefix(operatorConfig.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
}

func initConfigIfPresent() {
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			panic(err)
		}
		config, err := operatorConfig.NewOperatorConfigFromYamlBytes(data)
		if err != nil {
			panic(err)
		}
		Config = config
	} else {
		Config = operatorConfig.NewOperatorConfig()
	}
}

func main() {
	Execute()
}
