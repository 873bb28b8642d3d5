package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iolist/internal/domain"
)

func wiringRows() []domain.IOConfigurationRow {
	port := 3
	return []domain.IOConfigurationRow{
		{
			IODevice: "io0012300", SplitterUsed: "No", PinNumber: "Pin 2", PortNumber: &port,
			IOName: "12300_IN, spare", Direction: "I", IONumber: "I300.3", CableType: "M12",
		},
		{
			IODevice: "io0012300", SplitterUsed: "No", PinNumber: "Pin 4",
			IOName: "12300_OUT", Direction: "Q", IONumber: "Q318.3", CableType: "M12-4",
		},
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 9)
	assert.Equal(t, "IO device", row[0])
	assert.Equal(t, "Port number", row[3])
	assert.Equal(t, "CABLE LENGTH", row[8])
}

func TestRecord_OutputRowHasEmptyPort(t *testing.T) {
	rows := wiringRows()

	assert.Equal(t, "3", Record(&rows[0])[3])
	assert.Equal(t, "", Record(&rows[1])[3])
	assert.Equal(t, "Q318.3", Record(&rows[1])[6])
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Export(&buf, wiringRows()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, BOM))

	records, err := csv.NewReader(bytes.NewReader(data[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "12300_IN, spare", records[1][4])
	assert.Equal(t, "I300.3", records[1][6])
}

func TestExport_EmptyTable(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Export(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plant layout.dxf", "plant_layout"},
		{"Line 3 / Cell #2.DXF", "Line_3_Cell_2"},
		{"__odd__name__", "odd_name"},
		{"...", "io_list"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "plant_2025-03-09.csv", BuildFilename("plant.dxf", "csv", now))
	assert.Equal(t, "plant_2025-03-09.xlsx", BuildFilename("plant.dxf", "xlsx", now))
}
