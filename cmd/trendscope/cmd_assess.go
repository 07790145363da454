package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// assessCmd classifies a trend and reports its decline risk
var assessCmd = &cobra.Command{
	Use:   "assess <trend>",
	Short: "Assess a trend's decline risk",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssess,
}

func runAssess(cmd *cobra.Command, args []string) error {
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

	classification, err := rt.pipeline.ClassifyTrend(ctx, args[0])
	if err != nil {
		return err
	}
	assessment, err := rt.pipeline.AssessDecline(ctx, args[0], classification)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"classification": classification,
			"assessment":     assessment,
		})
	}

	printClassification(classification)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Decline risk:\t%.1f\n", assessment.DeclineRiskScore)
	fmt.Fprintf(w, "Alert level:\t%s\n", assessment.AlertLevel)
	fmt.Fprintf(w, "Engagement drop:\t%.1f\n", assessment.SignalBreakdown.EngagementDrop)
	fmt.Fprintf(w, "Velocity decline:\t%.1f\n", assessment.SignalBreakdown.VelocityDecline)
	fmt.Fprintf(w, "Creator decline:\t%.1f\n", assessment.SignalBreakdown.CreatorDecline)
	fmt.Fprintf(w, "Quality decline:\t%.1f\n", assessment.SignalBreakdown.QualityDecline)
	if assessment.TimeToDie != nil {
		fmt.Fprintf(w, "Est. days to collapse:\t%.0f\n", *assessment.TimeToDie)
	}
	w.Flush()
	return nil
}
