package pipeline

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/kampsync/internal/model"
)

var fixtureHeader = []string{"Dato", "Tid", "Kampnr", "Turnering", "Hjemmelag", "Bortelag", "H-B", "Bane", "Kamp URL"}

func buildXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		cells := make([]interface{}, len(row))
		for i, val := range row {
			cells[i] = val
		}
		require.NoError(t, f.SetSheetRow(sheet, axis, &cells))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func resultPage(home, away int) string {
	return `<html><body><div class="match__result"><table><tr>` +
		`<th class="bold">` + strconv.Itoa(home) + `</th><th>-</th><th class="bold">` + strconv.Itoa(away) + `</th>` +
		`</tr></table></div></body></html>`
}

// noSleep records requested backoff delays instead of waiting
func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := fetchSleepFunc
	fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { fetchSleepFunc = orig })
	return &delays
}

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{UserAgent: "kampsync-test/1.0", MaxBodyBytes: 1 << 20}
}
