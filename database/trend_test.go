package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitTrend_PerfectLine(t *testing.T) {
	t.Parallel()

	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	var series []DailyPoint
	for i := 0; i < 5; i++ {
		// пропуск 3-го дня не должен сдвигать ось X
		if i == 2 {
			continue
		}
		series = append(series, DailyPoint{Date: start.AddDate(0, 0, i), Confirmed: int64(10 + 2*i)})
	}

	trend, err := FitTrend(series, 2)
	require.NoError(t, err)

	assert.Equal(t, 2.0, trend.Slope)
	assert.Equal(t, 10.0, trend.Intercept)
	assert.Equal(t, 1.0, trend.R2)
	assert.Equal(t, start, trend.PeriodStart)
	assert.Equal(t, start.AddDate(0, 0, 4), trend.PeriodEnd)

	require.Len(t, trend.Forecast, 2)
	assert.Equal(t, start.AddDate(0, 0, 5), trend.Forecast[0].Date)
	assert.Equal(t, 20.0, trend.Forecast[0].Value)
	assert.Equal(t, 22.0, trend.Forecast[1].Value)
	assert.Equal(t, trend.Forecast[0].Value, trend.Forecast[0].CILower, "no residuals, zero-width interval")
}

func TestFitTrend_NotEnoughData(t *testing.T) {
	t.Parallel()

	day := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := FitTrend([]DailyPoint{{Date: day}, {Date: day.AddDate(0, 0, 1)}}, 7)
	require.Error(t, err)

	_, err = FitTrend([]DailyPoint{{Date: day}, {Date: day}, {Date: day}}, 7)
	require.Error(t, err)
}
