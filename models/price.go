package models

import "github.com/shopspring/decimal"

// PriceBar 表示单个交易日的 OHLCV 行情。
// V2 接口使用缩写字段名（O/H/L/C/Vo/Va），金额字段以 decimal 保存避免二进制浮点误差。
type PriceBar struct {
	Date          Date   `json:"Date"`
	Code          string `json:"Code"`
	Open          Num    `json:"O"`
	High          Num    `json:"H"`
	Low           Num    `json:"L"`
	Close         Num    `json:"C"`
	Volume        int64  `json:"Vo"`
	TurnoverValue Num    `json:"Va"`

	AdjustmentFactor Num `json:"AdjFactor"`
	AdjustmentOpen   Num `json:"AdjO"`
	AdjustmentHigh   Num `json:"AdjH"`
	AdjustmentLow    Num `json:"AdjL"`
	AdjustmentClose  Num `json:"AdjC"`

	// 涨停/跌停标记
	UpperLimit string `json:"UL"`
	LowerLimit string `json:"LL"`
}

// HasQuote 判断当日是否存在有效行情。停牌或权限受限时 OHLC 为空。
func (b PriceBar) HasQuote() bool {
	return b.Open.Valid && b.High.Valid && b.Low.Valid && b.Close.Valid
}

func (b PriceBar) factor() decimal.Decimal {
	if b.AdjustmentFactor.Valid {
		return b.AdjustmentFactor.Decimal
	}
	return decimal.NewFromInt(1)
}

// AdjustedOpen 返回除权除息调整后开盘价。
func (b PriceBar) AdjustedOpen() decimal.Decimal {
	if b.AdjustmentOpen.Valid {
		return b.AdjustmentOpen.Decimal
	}
	return b.Open.Mul(b.factor())
}

// AdjustedHigh 返回调整后最高价。
func (b PriceBar) AdjustedHigh() decimal.Decimal {
	if b.AdjustmentHigh.Valid {
		return b.AdjustmentHigh.Decimal
	}
	return b.High.Mul(b.factor())
}

// AdjustedLow 返回调整后最低价。
func (b PriceBar) AdjustedLow() decimal.Decimal {
	if b.AdjustmentLow.Valid {
		return b.AdjustmentLow.Decimal
	}
	return b.Low.Mul(b.factor())
}

// AdjustedClose 返回调整后收盘价。
func (b PriceBar) AdjustedClose() decimal.Decimal {
	if b.AdjustmentClose.Valid {
		return b.AdjustmentClose.Decimal
	}
	return b.Close.Mul(b.factor())
}

// AMPriceBar 表示前场（午前）四本值。V2 接口使用 MO/MH/ML/MC 等
// 带 M 前缀的字段名，与日次行情的 O/H/L/C 不同。Premium 档位限定。
type AMPriceBar struct {
	Date          Date   `json:"Date"`
	Code          string `json:"Code"`
	Open          Num    `json:"MO"`
	High          Num    `json:"MH"`
	Low           Num    `json:"ML"`
	Close         Num    `json:"MC"`
	Volume        int64  `json:"MVo"`
	TurnoverValue Num    `json:"MVa"`
}

// HasQuote 判断前场是否存在有效行情。
func (b AMPriceBar) HasQuote() bool {
	return b.Open.Valid && b.High.Valid && b.Low.Valid && b.Close.Valid
}

// IndexPrice 表示指数行情。TOPIX 专用端点不返回 Code 字段。
type IndexPrice struct {
	Date  Date   `json:"Date"`
	Code  string `json:"Code"`
	Open  Num    `json:"O"`
	High  Num    `json:"H"`
	Low   Num    `json:"L"`
	Close Num    `json:"C"`
}
