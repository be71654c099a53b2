package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/consulta-api/internal/format"
	"github.com/sjperalta/consulta-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

const exportSheet = "Resultats"

// ExportService renders a projected table as a downloadable file
type ExportService struct {
	now func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// Export renders table in the requested format and returns the file bytes and name
func (s *ExportService) Export(ctx context.Context, fileFormat string, table *models.TableDescriptor) ([]byte, string, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, "", ErrNoTable
	}

	switch strings.ToLower(fileFormat) {
	case FormatCSV:
		return s.ExportCSV(ctx, table)
	case FormatXLSX:
		return s.ExportXLSX(ctx, table)
	case FormatPDF:
		return s.ExportPDF(ctx, table)
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileFormat)
}

func (s *ExportService) ExportCSV(ctx context.Context, table *models.TableDescriptor) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	// Cells use a decimal comma
	writer.Comma = ';'

	_ = writer.Write([]string{table.Title, s.now().Format(format.DateLayout + " 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write(table.Headers)
	for _, row := range table.Rows {
		_ = writer.Write(row)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), s.filename(table, FormatCSV), nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, table *models.TableDescriptor) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", err
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F3F3F3"}, Pattern: 1},
	})

	_ = f.SetCellValue(exportSheet, "A1", table.Title)
	_ = f.SetCellStyle(exportSheet, "A1", "A1", titleStyle)

	const headerRow = 3
	if err := writeXLSXRow(f, headerRow, table.Headers, headerStyle); err != nil {
		return nil, "", err
	}

	for i, row := range table.Rows {
		style := 0
		if models.IsTotalRow(row) {
			style = totalStyle
		}
		if err := writeXLSXRow(f, headerRow+1+i, row, style); err != nil {
			return nil, "", err
		}
	}

	if cols := columnCount(table); cols > 0 {
		last, _ := excelize.ColumnNumberToName(cols)
		_ = f.SetColWidth(exportSheet, "A", last, 28)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	return buf.Bytes(), s.filename(table, FormatXLSX), nil
}

func writeXLSXRow(f *excelize.File, rowNum int, cells []string, style int) error {
	if len(cells) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(exportSheet, start, &values); err != nil {
		return err
	}
	if style != 0 {
		end, _ := excelize.CoordinatesToCellName(len(cells), rowNum)
		return f.SetCellStyle(exportSheet, start, end, style)
	}
	return nil
}

func (s *ExportService) ExportPDF(ctx context.Context, table *models.TableDescriptor) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(v string) string {
		// the narrow no-break space has no cp1252 glyph
		return tr(strings.ReplaceAll(v, format.GroupSeparator, " "))
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, text(table.Title))
	pdf.Ln(14)

	cols := columnCount(table)
	if cols == 0 {
		cols = 1
	}
	width := 190.0 / float64(cols)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(224, 224, 224)
	for _, h := range table.Headers {
		pdf.CellFormat(width, 8, text(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFillColor(243, 243, 243)
	for _, row := range table.Rows {
		total := models.IsTotalRow(row)
		if total {
			pdf.SetFont("Arial", "B", 10)
		} else {
			pdf.SetFont("Arial", "", 10)
		}
		for _, cell := range row {
			pdf.CellFormat(width, 8, text(cell), "1", 0, "L", total, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), s.filename(table, FormatPDF), nil
}

func columnCount(table *models.TableDescriptor) int {
	n := len(table.Headers)
	for _, row := range table.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// filename builds "<slug of title>_<date>.<ext>", e.g. "consommation_par_jour_2024-06-03.csv"
func (s *ExportService) filename(table *models.TableDescriptor, ext string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(foldText(table.Title)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
		} else if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		slug = "resultats"
	}
	return fmt.Sprintf("%s_%s.%s", slug, s.now().Format("2006-01-02"), ext)
}
