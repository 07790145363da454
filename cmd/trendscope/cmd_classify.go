package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/trendscope/trendscope/internal/domain"
)

// classifyCmd runs a one-shot classification for a trend
var classifyCmd = &cobra.Command{
	Use:   "classify <trend>",
	Short: "Classify a trend's lifecycle stage",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := rt.pipeline.ClassifyTrend(ctx, args[0])
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printClassification(result)
	return nil
}

func printClassification(result *domain.ClassificationResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Trend:\t%s\n", result.TrendKey)
	fmt.Fprintf(w, "Stage:\t%s\n", result.StageName)
	fmt.Fprintf(w, "Base confidence:\t%.2f\n", result.BaseConfidence)
	fmt.Fprintf(w, "Final confidence:\t%.2f\n", result.FinalConfidence)
	fmt.Fprintf(w, "Days in stage:\t%d\n", result.DaysInStage)
	fmt.Fprintf(w, "Data quality:\t%s\n", result.DataQuality)
	if len(result.Flags) > 0 {
		fmt.Fprintf(w, "Flags:\t%s\n", strings.Join(result.Flags, ", "))
	}
	w.Flush()
}
