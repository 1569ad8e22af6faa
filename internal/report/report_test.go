package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var generatedAt = time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)

func sampleAlerts() alerting.GlobalAlerts {
	return alerting.GlobalAlerts{
		TotalAlerts: 2,
		Details: []alerting.AlertRecord{
			{
				Location: "Invernadero Norte", SectorID: "norte", SensorID: "h1", SensorName: "Humedad 1",
				AlertKind: alerting.LowHumidity, AlertLabel: "Baja Humedad", Value: 10,
				CurrentValue: "10.0%", Message: "⚠️ Baja Humedad: Humedad 1 marca 10.0%.",
			},
			{
				Location: "Campo Sur", SectorID: "sur", SensorID: "t1", SensorName: "Termo",
				AlertKind: alerting.HighTemperature, AlertLabel: "Alta Temperatura", Value: 45,
				CurrentValue: "45.0°C", Message: "⚠️ Alta Temperatura: Termo marca 45.0°C.",
			},
		},
	}
}

func TestBuildAlertsXLSX(t *testing.T) {
	data, err := BuildAlertsXLSX(sampleAlerts(), generatedAt)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(alertsSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Ubicación", rows[0][0])
	assert.Equal(t, "Invernadero Norte", rows[1][0])
	assert.Equal(t, "Baja Humedad", rows[1][3])
	assert.Equal(t, "45.0°C", rows[2][5])

	total, err := f.GetCellValue(alertsSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestBuildAlertsXLSX_Empty(t *testing.T) {
	data, err := BuildAlertsXLSX(alerting.GlobalAlerts{Details: []alerting.AlertRecord{}}, generatedAt)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(alertsSheet)
	require.NoError(t, err)
	assert.Equal(t, "Mensaje", rows[0][6])

	label, err := f.GetCellValue(alertsSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Total alertas", label)
	total, err := f.GetCellValue(alertsSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "0", total)
}

func TestBuildAlertsXLSX_Footer(t *testing.T) {
	data, err := BuildAlertsXLSX(sampleAlerts(), generatedAt)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	for cell, want := range map[string]string{
		"A5": "Total alertas",
		"B5": "2",
		"A6": "Generado",
		"B6": "2024-11-05T12:00:00Z",
	} {
		got, err := f.GetCellValue(alertsSheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestBuildAlertsPDF(t *testing.T) {
	data, err := BuildAlertsPDF(sampleAlerts(), generatedAt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render("csv", sampleAlerts(), generatedAt)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestContentTypeAndFilename(t *testing.T) {
	ct, ok := ContentType("PDF")
	assert.True(t, ok)
	assert.Equal(t, "application/pdf", ct)

	_, ok = ContentType("csv")
	assert.False(t, ok)

	assert.Equal(t, "alertas-20241105-1200.xlsx", Filename("xlsx", generatedAt))
}
