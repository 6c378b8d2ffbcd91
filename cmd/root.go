package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "spdiftx",
	Short: "Stream audio through a simulated S/PDIF transmitter",
	Long: `spdiftx streams two channels of PCM audio blocks through the
transmit data path of an S/PDIF output: a circular DMA transfer feeds
the transmitter continuously while the pending block queues absorb the
jitter between the producer's cadence and the hardware cadence. The
hardware is simulated, so the resulting sub-frame stream can be
auditioned on a local audio device or recorded to a wav file.`,
}

// Execute adds all child commands to the root command and sets the flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.spdiftx.yaml)")
}

// initConfig reads in the config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".spdiftx")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
