package report

import (
	"fmt"

	"github.com/user/band_analyzer_go/internal/bands"
)

// GapSummary holds the derived gap quantities for one band pair, ready for
// tabulation in the PDF report.
type GapSummary struct {
	NLower, NUpper     int
	Direct             float64
	DirectKpt          [3]float64
	Indirect           float64
	LowerKpt, UpperKpt [3]float64
}

// SummarizeGaps computes direct and indirect gaps for each band pair.
func SummarizeGaps(calc *bands.BandsCalc, pairs [][2]int) ([]GapSummary, error) {
	out := make([]GapSummary, 0, len(pairs))
	for _, pair := range pairs {
		direct, directKpt, err := calc.DirectGap(pair[0], pair[1])
		if err != nil {
			return nil, fmt.Errorf("direct gap for bands (%d, %d): %w", pair[0], pair[1], err)
		}
		indirect, lowerKpt, upperKpt, err := calc.IndirectGap(pair[0], pair[1])
		if err != nil {
			return nil, fmt.Errorf("indirect gap for bands (%d, %d): %w", pair[0], pair[1], err)
		}
		out = append(out, GapSummary{
			NLower:    pair[0],
			NUpper:    pair[1],
			Direct:    direct,
			DirectKpt: directKpt,
			Indirect:  indirect,
			LowerKpt:  lowerKpt,
			UpperKpt:  upperKpt,
		})
	}
	return out, nil
}

func formatKpt(k [3]float64) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", k[0], k[1], k[2])
}
