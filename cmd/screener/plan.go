package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-screener/internal/interview"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Split an interview's question budget across categories",
	RunE:  runPlan,
}

var (
	planDuration  int
	planScreening int
	planTechnical int
	planHR        int
)

func init() {
	planCmd.Flags().IntVarP(&planDuration, "duration", "d", 30, "Interview length in minutes")
	planCmd.Flags().IntVar(&planScreening, "screening", 30, "Screening share in percent")
	planCmd.Flags().IntVar(&planTechnical, "technical", 50, "Technical share in percent")
	planCmd.Flags().IntVar(&planHR, "hr", 20, "HR share in percent")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	alloc := interview.Plan(planDuration, planScreening, planTechnical, planHR)

	out, err := json.MarshalIndent(alloc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal allocation: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
