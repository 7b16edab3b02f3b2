package trading

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/obichan117/pyjquants/models"
)

// ReferencePrice 指定市价单的成交参考价。
type ReferencePrice string

const (
	// ReferenceOpen 以当日开盘价成交，即视作开盘即入场。
	ReferenceOpen ReferencePrice = "open"
	// ReferenceClose 以当日收盘价成交。
	ReferenceClose ReferencePrice = "close"
)

// FillPolicy 控制撮合规则。
// 限价单始终按挂单价成交，不做价格改善，保持模拟结果偏保守。
type FillPolicy struct {
	MarketReference ReferencePrice
}

// DefaultFillPolicy 返回默认撮合规则：市价单按开盘价成交。
func DefaultFillPolicy() FillPolicy {
	return FillPolicy{MarketReference: ReferenceOpen}
}

// ParseReferencePrice 解析配置中的参考价取值。
func ParseReferencePrice(s string) (ReferencePrice, error) {
	switch ReferencePrice(s) {
	case ReferenceOpen:
		return ReferenceOpen, nil
	case ReferenceClose:
		return ReferenceClose, nil
	default:
		return "", fmt.Errorf("trading: 不支持的市价参考价 %q", s)
	}
}

func (p FillPolicy) marketPrice(bar models.PriceBar) decimal.Decimal {
	if p.MarketReference == ReferenceClose {
		return bar.Close.Decimal
	}
	return bar.Open.Decimal
}

// matchPrice 判断订单能否在给定行情下成交，返回成交价。
func (p FillPolicy) matchPrice(order *Order, bar models.PriceBar) (decimal.Decimal, bool) {
	switch order.Type {
	case OrderTypeMarket:
		return p.marketPrice(bar), true
	case OrderTypeLimit:
		if order.Side == SideBuy {
			// 当日最低价触及限价即视为成交。
			if bar.Low.LessThanOrEqual(order.LimitPrice) {
				return order.LimitPrice, true
			}
			return decimal.Zero, false
		}
		if bar.High.GreaterThanOrEqual(order.LimitPrice) {
			return order.LimitPrice, true
		}
		return decimal.Zero, false
	}
	return decimal.Zero, false
}
