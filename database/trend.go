// database/trend.go
package database

import (
	"fmt"
	"math"
	"time"
)

// Trend - линейный тренд дневного числа подтвержденных случаев
type Trend struct {
	Slope       float64         `json:"inclinacao"`
	Intercept   float64         `json:"intercepto"`
	R2          float64         `json:"r2"`
	PeriodStart time.Time       `json:"inicio_periodo"`
	PeriodEnd   time.Time       `json:"fim_periodo"`
	Forecast    []ForecastPoint `json:"previsao"`
}

// ForecastPoint - прогноз на один день с 95% интервалом
type ForecastPoint struct {
	Date    time.Time `json:"data"`
	Value   float64   `json:"valor"`
	CILower float64   `json:"limite_inferior"`
	CIUpper float64   `json:"limite_superior"`
}

// tStat95 - приближение t-статистики для 95% интервала
const tStat95 = 2.0

func roundToThousandth(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// FitTrend строит тренд методом наименьших квадратов.
// X - номер дня от первой даты ряда, поэтому пропущенные дни не сдвигают ось
func FitTrend(series []DailyPoint, daysAhead int) (*Trend, error) {
	if len(series) < 3 {
		return nil, fmt.Errorf("для тренда требуется минимум 3 дня, получено: %d", len(series))
	}

	start, end := series[0].Date, series[0].Date
	for _, p := range series {
		if p.Date.Before(start) {
			start = p.Date
		}
		if p.Date.After(end) {
			end = p.Date
		}
	}
	dayIndex := func(d time.Time) float64 {
		return math.Round(d.Sub(start).Hours() / 24)
	}

	n := float64(len(series))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for _, p := range series {
		x, y := dayIndex(p.Date), float64(p.Confirmed)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("все точки приходятся на один день, наклон не определен")
	}
	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	var r2 float64
	if spread := math.Sqrt(denominator * (n*sumY2 - sumY*sumY)); spread > 1e-10 {
		r := (n*sumXY - sumX*sumY) / spread
		r2 = r * r
	}

	// Стандартная ошибка оценки для интервала прогноза
	meanX := sumX / n
	var sumSqDevX, sumSqResiduals float64
	for _, p := range series {
		x := dayIndex(p.Date)
		residual := float64(p.Confirmed) - (slope*x + intercept)
		sumSqDevX += (x - meanX) * (x - meanX)
		sumSqResiduals += residual * residual
	}
	standardError := math.Sqrt(sumSqResiduals / (n - 2))

	trend := &Trend{
		Slope:       roundToThousandth(slope),
		Intercept:   roundToThousandth(intercept),
		R2:          roundToThousandth(r2),
		PeriodStart: start,
		PeriodEnd:   end,
		Forecast:    make([]ForecastPoint, 0, daysAhead),
	}

	lastX := dayIndex(end)
	for i := 1; i <= daysAhead; i++ {
		x := lastX + float64(i)
		value := slope*x + intercept
		margin := tStat95 * standardError * math.Sqrt(1+1/n+(x-meanX)*(x-meanX)/sumSqDevX)

		trend.Forecast = append(trend.Forecast, ForecastPoint{
			Date:    end.AddDate(0, 0, i),
			Value:   roundToThousandth(value),
			CILower: roundToThousandth(value - margin),
			CIUpper: roundToThousandth(value + margin),
		})
	}

	return trend, nil
}
