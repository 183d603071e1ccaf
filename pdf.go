package main

import (
	"strings"

	"github.com/jadenpxrk/tidy/internal/tree"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 5   // Line height in mm
	pdfFontSize   = 9
	pdfTabWidth   = 4 // Number of spaces for a tab
)

// generatePDF writes the tree, one entry per line, to an A4 PDF in a monospace font.
func generatePDF(entries []tree.Entry, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)

	// Core fonts are cp1252; translate so non-ASCII names do not garble.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	tab := strings.Repeat(" ", pdfTabWidth)

	for _, e := range entries {
		line := strings.ReplaceAll(tree.Line(e), "\t", tab)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, tr(line), "", "L", false)
	}

	return pdf.OutputFileAndClose(outputPath)
}
