package trading

import "github.com/shopspring/decimal"

// Position 表示单一标的的持仓，由成交序列推导。
type Position struct {
	Code     string
	Quantity int64
	// AverageCost 为买入成交的数量加权均价，仅在 Quantity > 0 时有意义。
	// 卖出不改变均价，只改变数量与已实现损益。
	AverageCost decimal.Decimal
	// RealizedPnl 为该标的累计已实现损益。
	RealizedPnl decimal.Decimal
}

// applyBuy 并入一笔买入成交，重算加权平均成本。
func (p *Position) applyBuy(quantity int64, price decimal.Decimal) {
	prevQty := decimal.NewFromInt(p.Quantity)
	newQty := decimal.NewFromInt(quantity)

	total := p.AverageCost.Mul(prevQty).Add(price.Mul(newQty))
	p.Quantity += quantity
	p.AverageCost = total.Div(decimal.NewFromInt(p.Quantity))
}

// applySell 并入一笔卖出成交，返回本次已实现损益。
// 调用方需保证数量不超过持仓。
func (p *Position) applySell(quantity int64, price decimal.Decimal) decimal.Decimal {
	realized := price.Sub(p.AverageCost).Mul(decimal.NewFromInt(quantity))
	p.RealizedPnl = p.RealizedPnl.Add(realized)
	p.Quantity -= quantity
	return realized
}

// MarketValue 返回按给定现价计算的持仓市值。
func (p Position) MarketValue(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(p.Quantity))
}

// UnrealizedPnl 返回按给定现价计算的未实现损益。
func (p Position) UnrealizedPnl(price decimal.Decimal) decimal.Decimal {
	return price.Sub(p.AverageCost).Mul(decimal.NewFromInt(p.Quantity))
}
