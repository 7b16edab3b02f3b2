package indicator

import (
	"math"

	"github.com/obichan117/pyjquants/models"
)

// Series 将日线行情拆分为便于指标计算的序列。
// 指标计算为统计用途，使用 float64；资金计算仍走 decimal。
type Series struct {
	Dates  []models.Date
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// NewSeries 从日线行情创建 Series，保持输入顺序。
func NewSeries(bars []models.PriceBar) Series {
	length := len(bars)
	series := Series{
		Dates:  make([]models.Date, length),
		Open:   make([]float64, length),
		High:   make([]float64, length),
		Low:    make([]float64, length),
		Close:  make([]float64, length),
		Volume: make([]float64, length),
	}

	for i := 0; i < length; i++ {
		bar := bars[i]
		series.Dates[i] = bar.Date
		series.Open[i], _ = bar.AdjustedOpen().Float64()
		series.High[i], _ = bar.AdjustedHigh().Float64()
		series.Low[i], _ = bar.AdjustedLow().Float64()
		series.Close[i], _ = bar.AdjustedClose().Float64()
		series.Volume[i] = float64(bar.Volume)
	}

	return series
}

// Len 返回序列长度。
func (s Series) Len() int {
	return len(s.Close)
}

// Last 返回序列最后一个值，若为空则返回 NaN。
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// Prev 返回序列倒数第二个值，若不足两个元素则返回 NaN。
func Prev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return values[len(values)-2]
}
