package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hkcm91/StickerNestV3-sub007/internal/project"
)

var rootCmd = &cobra.Command{
	Use:   "stickerc",
	Short: "SpecJSON widget compiler and host",
	Long:  "Stickerc validates SpecJSON widget definitions, compiles them into self-contained runnable packages, and hosts the result for dashboards.",
	RunE:  runRootDefault,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .stickerc.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".stickerc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("STICKERC")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runRootDefault builds the project when widget.toml exists in the cwd.
// Without a manifest it falls back to showing help.
func runRootDefault(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return cmd.Help()
	}
	if _, err := os.Stat(filepath.Join(wd, project.ManifestFileName)); os.IsNotExist(err) {
		return cmd.Help()
	}
	// Delegate to the build subcommand.
	return runBuild(buildCmd, nil)
}
