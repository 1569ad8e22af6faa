// Package report renders the global alert list as downloadable documents.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	alertsSheet = "Alertas"
)

var contentTypes = map[string]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

// ContentType returns the MIME type of a supported format.
func ContentType(format string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(format)]
	return ct, ok
}

// Filename builds the attachment name, e.g. alertas-20241105-1200.pdf.
func Filename(format string, generatedAt time.Time) string {
	return fmt.Sprintf("alertas-%s.%s", generatedAt.UTC().Format("20060102-1504"), strings.ToLower(format))
}

// Render dispatches on format.
func Render(format string, alerts alerting.GlobalAlerts, generatedAt time.Time) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return BuildAlertsXLSX(alerts, generatedAt)
	case FormatPDF:
		return BuildAlertsPDF(alerts, generatedAt)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported export format %q", format), nil).
			WithDetails(map[string]string{"supported": FormatXLSX + "," + FormatPDF})
	}
}

// BuildAlertsXLSX writes one row per alert on the "Alertas" sheet.
func BuildAlertsXLSX(alerts alerting.GlobalAlerts, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", alertsSheet); err != nil {
		return nil, err
	}

	header := []interface{}{"Ubicación", "Sector", "Sensor", "Alerta", "Valor", "Valor actual", "Mensaje"}
	if err := f.SetSheetRow(alertsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, record := range alerts.Details {
		row := []interface{}{
			record.Location,
			record.SectorID,
			record.SensorName,
			record.AlertLabel,
			record.Value,
			record.CurrentValue,
			record.Message,
		}
		if err := f.SetSheetRow(alertsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	footer := len(alerts.Details) + 3
	totals := []interface{}{"Total alertas", alerts.TotalAlerts}
	if err := f.SetSheetRow(alertsSheet, fmt.Sprintf("A%d", footer), &totals); err != nil {
		return nil, err
	}
	generated := []interface{}{"Generado", generatedAt.UTC().Format(time.RFC3339)}
	if err := f.SetSheetRow(alertsSheet, fmt.Sprintf("A%d", footer+1), &generated); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildAlertsPDF renders the alert total and one A4 table row per alert.
func BuildAlertsPDF(alerts alerting.GlobalAlerts, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Alertas activas"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generado: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %d", alerts.TotalAlerts))
	pdf.Ln(8)

	widths := []float64{50, 50, 50, 30}
	pdf.SetFont("Arial", "B", 10)
	for i, title := range []string{"Ubicación", "Sensor", "Alerta", "Valor"} {
		pdf.CellFormat(widths[i], 6, tr(title), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, record := range alerts.Details {
		pdf.CellFormat(widths[0], 6, tr(record.Location), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(record.SensorName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(record.AlertLabel), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(record.CurrentValue), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
