package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/sjperalta/consulta-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func dailyTable() *models.TableDescriptor {
	return &models.TableDescriptor{
		Title:   "Consommation par jour",
		Headers: []string{"Date", "consommation (tonnes)", "Nombre d'entrées"},
		Rows: [][]string{
			{"01/06/2024", "1 234,50", "2"},
			{"02/06/2024", "5,00", "1"},
			{"TOTAL", "1 239,50", "3"},
		},
	}
}

func newTestExportService() *ExportService {
	svc := NewExportService()
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportService_CSV(t *testing.T) {
	data, filename, err := newTestExportService().Export(context.Background(), "csv", dailyTable())
	require.NoError(t, err)
	assert.Equal(t, "consommation_par_jour_2024-06-03.csv", filename)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 6)
	assert.Equal(t, []string{"Consommation par jour", "03/06/2024 10:30"}, records[0])
	assert.Equal(t, []string{"Date", "consommation (tonnes)", "Nombre d'entrées"}, records[2])
	assert.Equal(t, []string{"TOTAL", "1 239,50", "3"}, records[5])
}

func TestExportService_XLSX(t *testing.T) {
	data, filename, err := newTestExportService().Export(context.Background(), "XLSX", dailyTable())
	require.NoError(t, err)
	assert.Equal(t, "consommation_par_jour_2024-06-03.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue(exportSheet, "A1")
	assert.Equal(t, "Consommation par jour", title)

	header, _ := f.GetCellValue(exportSheet, "B3")
	assert.Equal(t, "consommation (tonnes)", header)

	total, _ := f.GetCellValue(exportSheet, "A6")
	assert.Equal(t, "TOTAL", total)
	totalValue, _ := f.GetCellValue(exportSheet, "B6")
	assert.Equal(t, "1 239,50", totalValue)
}

func TestExportService_PDF(t *testing.T) {
	data, filename, err := newTestExportService().Export(context.Background(), "pdf", dailyTable())
	require.NoError(t, err)
	assert.Equal(t, "consommation_par_jour_2024-06-03.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportService_Errors(t *testing.T) {
	svc := newTestExportService()

	_, _, err := svc.Export(context.Background(), "csv", nil)
	assert.ErrorIs(t, err, ErrNoTable)

	_, _, err = svc.Export(context.Background(), "csv", &models.TableDescriptor{Title: "x"})
	assert.ErrorIs(t, err, ErrNoTable)

	_, _, err = svc.Export(context.Background(), "docx", dailyTable())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportService_FilenameSlug(t *testing.T) {
	svc := newTestExportService()
	assert.Equal(t, "resultat_de_l_operation_2024-06-03.pdf", svc.filename(&models.TableDescriptor{Title: "Résultat de l'opération"}, "pdf"))
	assert.Equal(t, "resultats_2024-06-03.csv", svc.filename(&models.TableDescriptor{Title: "  "}, "csv"))
}
