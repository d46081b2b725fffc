package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	format     string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:          "parkalloc",
	Short:        "Allocate vehicles among parking facilities",
	SilenceUsage: true,
	RunE:         runAllocate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "report format (text, json, csv); overrides report.format")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write the report to this file instead of stdout")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
