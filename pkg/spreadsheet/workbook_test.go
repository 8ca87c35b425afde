package spreadsheet

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headers = []string{"Tracking Code", "Full Name", "Device Type"}

func TestWorkbook_AppendCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror", "quotes.xlsx")
	wb := NewWorkbook(path, "Quotes", headers)

	require.NoError(t, wb.AppendRow([]interface{}{"QS-A7K9M2P5", "John Doe", "Inverter"}))
	require.NoError(t, wb.AppendRow([]interface{}{"QS-B1C2D3E4", "Jane Roe", "Solar Panel"}))

	rows, err := wb.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"QS-A7K9M2P5", "John Doe", "Inverter"}, rows[1])
	assert.Equal(t, "QS-B1C2D3E4", rows[2][0])
}

func TestWorkbook_ConcurrentAppends(t *testing.T) {
	wb := NewWorkbook(filepath.Join(t.TempDir(), "quotes.xlsx"), "Quotes", headers)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, wb.AppendRow([]interface{}{fmt.Sprintf("QS-%08d", i), "n", "Inverter"}))
		}(i)
	}
	wg.Wait()

	rows, err := wb.Rows()
	require.NoError(t, err)
	assert.Len(t, rows, 11)
}

func TestBuildReport(t *testing.T) {
	f, err := BuildReport("Quotes", headers, [][]interface{}{
		{"QS-A7K9M2P5", "John Doe", "Inverter"},
	})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Quotes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "John Doe", rows[1][1])
}
