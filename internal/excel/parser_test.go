package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseTasks(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"tresc", "przedmiot", "zakres", "dzial", "rodzaj_arkusza", "rok_arkusza", "numer_zadania", "typ_zadania", "uwagi"},
		[]interface{}{"Oblicz x", "matematyka", "podstawa", "Funkcje", "maj", 2024, 3, "otwarte", "pomiń"},
		[]interface{}{"", "", "", "", "", "", "", "", ""},
		[]interface{}{"Wybierz", "matematyka", "podstawa", "Ciągi", "out", "", "", "zamkniete"},
	)

	rows, err := ParseTasks(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Oblicz x", rows[0].Get("tresc"))
	assert.Equal(t, "2024", rows[0].Get("rok_arkusza"))
	assert.Equal(t, "3", rows[0].Get("numer_zadania"))
	_, hasUnknown := rows[0].Cells["uwagi"]
	assert.False(t, hasUnknown)

	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "out", rows[1].Get("rodzaj_arkusza"))
	assert.Equal(t, "", rows[1].Get("odp_a"))
}

func TestParseTasksHeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		header []interface{}
		want   string
	}{
		{"missing column", []interface{}{"przedmiot", "zakres"}, "missing column"},
		{"duplicate column", []interface{}{"przedmiot", "Przedmiot"}, "duplicate column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTasks(workbook(t, tt.header))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseTasksRejectsGarbage(t *testing.T) {
	_, err := ParseTasks(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
