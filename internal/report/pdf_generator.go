// Package report renders the derived band-structure quantities into plot
// images and a PDF summary document.
package report

import (
	"bytes"
	"fmt"
	"log"

	"github.com/jung-kurt/gofpdf"
)

const (
	inchToMm              = 25.4
	pdfPageWidthPortrait  = 8.5 * inchToMm // Letter portrait
	pdfPageHeightPortrait = 11 * inchToMm
	pdfMargin             = 0.5 * inchToMm
	pdfContentWidth       = pdfPageWidthPortrait - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and flowing-content state for PDF
// generation.
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightPortrait - (2 * pdfMargin),
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = s.contentTopY
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows [][]string) {
	colWidths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidths[i] = rel * pdfContentWidth
	}

	s.checkAddPage(s.lineHeight * float64(len(rows)+1))

	sY := s.currentY
	sX := pdfMargin
	s.applyStyle("tableHeader")
	for i, header := range headers {
		s.pdf.SetXY(sX, sY)
		s.pdf.CellFormat(colWidths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
		sX += colWidths[i]
	}
	sY += s.lineHeight
	s.currentY = sY

	s.applyStyle("tableCell")
	for _, row := range rows {
		s.checkAddPage(s.lineHeight)
		sY = s.currentY
		sX = pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(sX, sY)
			s.pdf.CellFormat(colWidths[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += colWidths[i]
		}
		s.currentY = sY + s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// BuildBandReport creates the PDF report: a band-gap summary table per band
// pair followed by the dispersion plot and, when supplied, the
// effective-mass fit plot.
func BuildBandReport(filepath string, energyUnits string, gaps []GapSummary, plotImages map[string][]byte) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph("Band Structure Analysis Report", "h1", "C")
	styler.addSpacer(5)

	styler.writeParagraph(fmt.Sprintf("Band Gaps (%s)", energyUnits), "h2", "L")
	if len(gaps) > 0 {
		headers := []string{"Bands", "Direct Gap", "Direct k-pt", "Indirect Gap", "Lower Max k-pt", "Upper Min k-pt"}
		colWidthsRel := []float64{0.1, 0.12, 0.26, 0.12, 0.2, 0.2}
		rows := make([][]string, 0, len(gaps))
		for _, g := range gaps {
			rows = append(rows, []string{
				fmt.Sprintf("%d-%d", g.NLower, g.NUpper),
				fmt.Sprintf("%.4f", g.Direct),
				formatKpt(g.DirectKpt),
				fmt.Sprintf("%.4f", g.Indirect),
				formatKpt(g.LowerKpt),
				formatKpt(g.UpperKpt),
			})
		}
		styler.writeTable(headers, colWidthsRel, rows)
	} else {
		styler.writeParagraph("No band pairs analyzed.", "normal", "L")
	}
	styler.addSpacer(5)

	plotDefs := []struct {
		Key     string
		Title   string
		Caption string
	}{
		{"dispersion", "Band Structure", "Band energies along the k-point path"},
		{"mass_fit", "Effective Mass Fit", "Parabolic fit of the band energies near the chosen k-point"},
	}

	imgWidth := pdfContentWidth * 0.9
	imgHeight := imgWidth * (5.0 / 8.0)

	for _, pDef := range plotDefs {
		imgBytes, ok := plotImages[pDef.Key]
		if !ok || len(imgBytes) == 0 {
			log.Printf("Plot %q not supplied, skipping.", pDef.Key)
			continue
		}
		styler.writeParagraph(pDef.Title, "h2", "L")
		styler.addImage(imgBytes, pDef.Key, imgWidth, imgHeight, pDef.Caption)
	}

	return pdf.OutputFileAndClose(filepath)
}
