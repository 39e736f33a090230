package quote

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/order"
)

// Page layout constants (A4 portrait in mm).
const (
	pdfMarginLeft = 15.0
	pdfMarginTop  = 15.0
	pdfBodyWidth  = 180.0
	pdfQRSize     = 28.0
	pdfLineHeight = 6.0
)

// PDFOptions configures the PDF export.
type PDFOptions struct {
	// FontPath is a UTF-8 TrueType font. Hangul text needs one; without it
	// the built-in Helvetica is used.
	FontPath string
	// Reference is encoded into the QR code, e.g. an order id.
	Reference string
}

// WritePDF renders the quote as a one-document PDF.
func WritePDF(w io.Writer, cat *catalog.Catalog, sub order.Submission, opts PDFOptions) error {
	content := Build(cat, sub)

	fontDir := ""
	if opts.FontPath != "" {
		fontDir = filepath.Dir(opts.FontPath)
	}

	pdf := fpdf.New("P", "mm", "A4", fontDir)
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginLeft)
	pdf.SetAutoPageBreak(true, pdfMarginTop)

	family := "Helvetica"
	if opts.FontPath != "" {
		pdf.AddUTF8Font("quote", "", filepath.Base(opts.FontPath))
		family = "quote"
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load pdf font: %w", err)
	}

	pdf.AddPage()

	if opts.Reference != "" {
		png, err := qrcode.Encode(opts.Reference, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("generate quote qr code: %w", err)
		}
		pdf.RegisterImageOptionsReader("quote_ref", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions("quote_ref", pdfMarginLeft+pdfBodyWidth-pdfQRSize, pdfMarginTop, pdfQRSize, pdfQRSize,
			false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	pdf.SetFont(family, "", 14)
	pdf.SetXY(pdfMarginLeft, pdfMarginTop)
	pdf.CellFormat(pdfBodyWidth-pdfQRSize, 10, content.Subject, "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 10)
	if opts.Reference != "" {
		pdf.CellFormat(pdfBodyWidth-pdfQRSize, pdfLineHeight, opts.Reference, "", 1, "L", false, 0, "")
	}
	pdf.SetY(pdfMarginTop + pdfQRSize + 4)

	for _, line := range content.Lines {
		if line == "" {
			pdf.Ln(pdfLineHeight / 2)
			continue
		}
		pdf.MultiCell(pdfBodyWidth, pdfLineHeight, line, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write quote pdf: %w", err)
	}
	return nil
}
