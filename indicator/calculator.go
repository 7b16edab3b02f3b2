package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"github.com/obichan117/pyjquants/models"
)

// Result 为一次指标计算的汇总。
type Result struct {
	Series        Series
	SMA25         float64
	SMA75         float64
	EMA12         float64
	EMA26         float64
	RSI           float64
	Close         float64
	PreviousClose float64
	Return1D      float64
}

// minBars 为计算全部指标所需的最少样本数（SMA75 + 余量）。
const minBars = 80

// Compute 依据日线行情计算常用技术指标。
func Compute(bars []models.PriceBar) (Result, error) {
	if len(bars) < minBars {
		return Result{}, fmt.Errorf("indicator: 样本不足，需要至少 %d 根K线，实际 %d", minBars, len(bars))
	}

	series := NewSeries(bars)
	closes := series.Close

	sma25 := talib.Sma(closes, 25)
	sma75 := talib.Sma(closes, 75)
	ema12 := talib.Ema(closes, 12)
	ema26 := talib.Ema(closes, 26)
	rsi := talib.Rsi(closes, 14)

	last := Last(closes)
	prev := Prev(closes)
	ret := 0.0
	if prev != 0 {
		ret = last/prev - 1
	}

	return Result{
		Series:        series,
		SMA25:         Last(sma25),
		SMA75:         Last(sma75),
		EMA12:         Last(ema12),
		EMA26:         Last(ema26),
		RSI:           Last(rsi),
		Close:         last,
		PreviousClose: prev,
		Return1D:      ret,
	}, nil
}

// SMA 返回收盘价的简单移动平均序列。
func SMA(bars []models.PriceBar, period int) []float64 {
	if period <= 0 || len(bars) == 0 {
		return nil
	}
	return talib.Sma(NewSeries(bars).Close, period)
}

// Returns 返回逐日收益率序列，长度为 len(bars)-1。
func Returns(bars []models.PriceBar) []float64 {
	series := NewSeries(bars)
	if series.Len() < 2 {
		return nil
	}
	out := make([]float64, 0, series.Len()-1)
	for i := 1; i < series.Len(); i++ {
		prev := series.Close[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, series.Close[i]/prev-1)
	}
	return out
}
