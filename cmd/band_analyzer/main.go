package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "band_analyzer",
	Short: "Post-process band-structure calculation output",
	Long: `band_analyzer ingests the YAML output of a bands calculation and derives
band gaps and effective masses, renders dispersion plots, builds PDF
reports, and compares output files for the regression harness.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newGapsCmd(), newMassCmd(), newReportCmd(), newCompareCmd())
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
