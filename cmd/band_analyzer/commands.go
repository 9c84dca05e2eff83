package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/band_analyzer_go/internal/bands"
	"github.com/user/band_analyzer_go/internal/compare"
	"github.com/user/band_analyzer_go/internal/report"
)

func parseKpoint(s string) ([3]float64, error) {
	var k [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return k, fmt.Errorf("k-point must have 3 comma-separated components, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return k, fmt.Errorf("k-point component %q is not numeric", p)
		}
		k[i] = v
	}
	return k, nil
}

func parsePairs(s string) ([][2]int, error) {
	var pairs [][2]int
	for _, item := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(item), ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("band pair must look like lower:upper, got %q", item)
		}
		lower, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("band index %q is not an integer", parts[0])
		}
		upper, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("band index %q is not an integer", parts[1])
		}
		pairs = append(pairs, [2]int{lower, upper})
	}
	return pairs, nil
}

func parseLabels(s string) (map[int]string, error) {
	labels := make(map[int]string)
	for _, item := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("label must look like index=name, got %q", item)
		}
		idx, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("label index %q is not an integer", parts[0])
		}
		labels[idx] = parts[1]
	}
	return labels, nil
}

func newGapsCmd() *cobra.Command {
	var input string
	var lower, upper int

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Compute the direct and indirect band gap for a band pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := bands.FromYAML(input)
			if err != nil {
				return err
			}

			direct, directKpt, err := calc.DirectGap(lower, upper)
			if err != nil {
				return err
			}
			indirect, lowerKpt, upperKpt, err := calc.IndirectGap(lower, upper)
			if err != nil {
				return err
			}

			units := calc.Bands().Units()
			fmt.Printf("Bands %d-%d:\n", lower, upper)
			fmt.Printf("  direct gap:   %.6f %s at (%.4f, %.4f, %.4f)\n",
				direct, units, directKpt[0], directKpt[1], directKpt[2])
			fmt.Printf("  indirect gap: %.6f %s\n", indirect, units)
			fmt.Printf("    lower band max at (%.4f, %.4f, %.4f)\n", lowerKpt[0], lowerKpt[1], lowerKpt[2])
			fmt.Printf("    upper band min at (%.4f, %.4f, %.4f)\n", upperKpt[0], upperKpt[1], upperKpt[2])
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "bands calculation output YAML file")
	cmd.Flags().IntVar(&lower, "lower", 1, "lower band index")
	cmd.Flags().IntVar(&upper, "upper", 2, "upper band index")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newMassCmd() *cobra.Command {
	var input, kpointStr, plotPath string
	var band int
	var maxDistance float64
	var showPlot bool

	cmd := &cobra.Command{
		Use:   "mass",
		Short: "Compute the longitudinal effective mass at a k-point",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := bands.FromYAML(input)
			if err != nil {
				return err
			}
			kpoint, err := parseKpoint(kpointStr)
			if err != nil {
				return err
			}

			var opts *bands.MassFitOptions
			if showPlot {
				opts = &bands.MassFitOptions{ShowPlot: true, PlotPath: plotPath}
			}
			mass, err := calc.EffectiveMass(band, kpoint, maxDistance, opts)
			if err != nil {
				return err
			}

			fmt.Printf("Effective mass of band %d at (%.4f, %.4f, %.4f): %.6f (atomic units)\n",
				band, kpoint[0], kpoint[1], kpoint[2], mass)
			if showPlot {
				log.Printf("Fit plot written to %s", plotPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "bands calculation output YAML file")
	cmd.Flags().IntVar(&band, "band", 1, "band index")
	cmd.Flags().StringVar(&kpointStr, "kpoint", "", "center k-point as x,y,z in crystal coordinates")
	cmd.Flags().Float64Var(&maxDistance, "max-distance", 0.1, "neighborhood radius in reciprocal length")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "render the parabolic fit to a PNG")
	cmd.Flags().StringVar(&plotPath, "plot-path", "effective_mass_fit.png", "output path for the fit plot")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("kpoint")
	return cmd
}

func newReportCmd() *cobra.Command {
	var input, output, pairsStr, labelsStr string
	var eMin, eMax float64
	var useWindow bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a PDF report with gaps and the dispersion plot",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := bands.FromYAML(input)
			if err != nil {
				return err
			}
			pairs, err := parsePairs(pairsStr)
			if err != nil {
				return err
			}

			showLabels := labelsStr != ""
			if showLabels {
				labels, err := parseLabels(labelsStr)
				if err != nil {
					return err
				}
				if err := calc.AddLabels(labels); err != nil {
					return err
				}
			}

			gaps, err := report.SummarizeGaps(calc, pairs)
			if err != nil {
				return err
			}

			var window *bands.EnergyWindow
			if useWindow {
				window = &bands.EnergyWindow{Min: eMin, Max: eMax}
			}
			log.Printf("Rendering dispersion plot for %d band(s).", calc.Bands().NumBands())
			dispersion, err := report.CreateDispersionPlot(calc, window, showLabels)
			if err != nil {
				return err
			}

			plotImages := map[string][]byte{"dispersion": dispersion}
			if err := report.BuildBandReport(output, calc.Bands().Units(), gaps, plotImages); err != nil {
				return err
			}
			log.Printf("Report written to %s", output)
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			useWindow = cmd.Flags().Changed("emin") || cmd.Flags().Changed("emax")
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "bands calculation output YAML file")
	cmd.Flags().StringVarP(&output, "output", "o", "band_report.pdf", "output PDF path")
	cmd.Flags().StringVar(&pairsStr, "pairs", "1:2", "band pairs as lower:upper, comma separated")
	cmd.Flags().Float64Var(&eMin, "emin", 0, "lower edge of the energy window")
	cmd.Flags().Float64Var(&eMax, "emax", 0, "upper edge of the energy window")
	cmd.Flags().StringVar(&labelsStr, "labels", "", "high-symmetry labels as index=name, comma separated")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Compare two calculation output files within tolerances",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := compare.Spec{Tolerances: map[string]float64{"default": 1e-8}}
			if specPath != "" {
				var err error
				spec, err = compare.LoadSpec(specPath)
				if err != nil {
					return err
				}
			}

			equal, err := compare.EqualValues(args[0], args[1], spec)
			if err != nil {
				return err
			}
			if !equal {
				return fmt.Errorf("files %s and %s differ beyond tolerance", args[0], args[1])
			}
			fmt.Println("Files match within tolerance.")
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "YAML comparison spec (tolerances, ignore/test keywords)")
	return cmd
}
