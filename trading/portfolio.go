package trading

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Portfolio 持有现金余额与全部未平仓头寸。
// 估值类方法是纯函数，现价由调用方提供，内部不缓存行情以避免陈旧数据。
type Portfolio struct {
	cash      decimal.Decimal
	positions map[string]*Position
	// closedRealized 保留已清仓标的的已实现损益。
	closedRealized decimal.Decimal
}

// NewPortfolio 以初始现金创建 Portfolio。
func NewPortfolio(initialCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		cash:      initialCash,
		positions: make(map[string]*Position),
	}
}

// Cash 返回现金余额。
func (p *Portfolio) Cash() decimal.Decimal {
	return p.cash
}

// Position 返回指定标的的持仓副本。
func (p *Portfolio) Position(code string) (Position, bool) {
	pos, ok := p.positions[code]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions 返回全部持仓副本，按代码排序保证遍历确定性。
func (p *Portfolio) Positions() []Position {
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// RealizedPnl 返回全部标的（含已清仓）的累计已实现损益。
func (p *Portfolio) RealizedPnl() decimal.Decimal {
	total := p.closedRealized
	for _, pos := range p.positions {
		total = total.Add(pos.RealizedPnl)
	}
	return total
}

// TotalValue 返回现金加持仓市值。prices 为各持仓标的的现价，
// 缺失现价的持仓按平均成本估值。空仓时总值即现金。
func (p *Portfolio) TotalValue(prices map[string]decimal.Decimal) decimal.Decimal {
	total := p.cash
	for code, pos := range p.positions {
		price, ok := prices[code]
		if !ok {
			price = pos.AverageCost
		}
		total = total.Add(pos.MarketValue(price))
	}
	return total
}

// UnrealizedPnl 返回按现价计算的未实现损益合计，缺失现价的持仓按零计。
func (p *Portfolio) UnrealizedPnl(prices map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for code, pos := range p.positions {
		price, ok := prices[code]
		if !ok {
			continue
		}
		total = total.Add(pos.UnrealizedPnl(price))
	}
	return total
}

// Weights 返回各持仓市值占组合总值的比例。空仓或总值为零时返回空映射。
func (p *Portfolio) Weights(prices map[string]decimal.Decimal) map[string]decimal.Decimal {
	weights := make(map[string]decimal.Decimal)
	if len(p.positions) == 0 {
		return weights
	}

	total := p.TotalValue(prices)
	if total.IsZero() {
		return weights
	}

	for code, pos := range p.positions {
		price, ok := prices[code]
		if !ok {
			price = pos.AverageCost
		}
		weights[code] = pos.MarketValue(price).Div(total)
	}
	return weights
}

// applyBuyFill 记录一笔买入成交：扣减现金并更新持仓。
// 调用方需保证现金充足。
func (p *Portfolio) applyBuyFill(code string, quantity int64, price decimal.Decimal) {
	p.cash = p.cash.Sub(price.Mul(decimal.NewFromInt(quantity)))

	pos, ok := p.positions[code]
	if !ok {
		pos = &Position{Code: code}
		p.positions[code] = pos
	}
	pos.applyBuy(quantity, price)
}

// applySellFill 记录一笔卖出成交：增加现金、累计已实现损益，
// 数量归零时剔除持仓并把已实现损益保留在组合层。返回本笔的已实现损益。
func (p *Portfolio) applySellFill(code string, quantity int64, price decimal.Decimal) decimal.Decimal {
	p.cash = p.cash.Add(price.Mul(decimal.NewFromInt(quantity)))

	pos, ok := p.positions[code]
	if !ok {
		return decimal.Zero
	}
	realized := pos.applySell(quantity, price)

	if pos.Quantity == 0 {
		p.closedRealized = p.closedRealized.Add(pos.RealizedPnl)
		delete(p.positions, code)
	}
	return realized
}
