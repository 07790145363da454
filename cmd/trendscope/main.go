package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	outputFormat string
	verbose      bool
)

// rootCmd is the base command for the trendscope CLI
var rootCmd = &cobra.Command{
	Use:   "trendscope",
	Short: "Trendscope trend lifecycle and decline-signal classifier",
	Long: `Trendscope classifies social trends into lifecycle stages and scores their
decline risk from multi-source activity signals. Classification is rule-based
and deterministic; confidence combines signal quality with an optional
advisory review.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Trendscope - trend lifecycle classification")
		fmt.Println("Use 'trendscope classify <trend>' or 'trendscope serve'")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table, json")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(assessCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
