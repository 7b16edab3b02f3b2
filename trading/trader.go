package trading

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/obichan117/pyjquants/models"
)

// BarSource 为撮合引擎提供日线行情。
// 非交易日或无数据时返回 ok=false 且无错误；标的不存在等无法回答的
// 查询返回错误。实现方自行处理网络、缓存与认证，这些不进入本包。
type BarSource interface {
	PriceBar(ctx context.Context, code string, day models.Date) (models.PriceBar, bool, error)
}

// Recorder 在每笔成交后记录流水，用于可选的落盘审计。
type Recorder interface {
	RecordExecution(ctx context.Context, exec Execution) error
}

// Options 控制 Trader 行为，零值即默认规则、无落盘、无日志。
type Options struct {
	Policy   FillPolicy
	Recorder Recorder
	Logger   *zap.Logger
}

// Trader 驱动一条模拟交易时间线：下单、逐日撮合、维护组合状态。
// 单个 Trader 实例不支持并发调用，多线程使用需由调用方串行化。
type Trader struct {
	portfolio *Portfolio
	orders    []*Order
	byID      map[string]*Order

	bars     BarSource
	policy   FillPolicy
	recorder Recorder
	logger   *zap.Logger

	lastSimulated models.Date
}

// NewTrader 创建 Trader。initialCash 为起始现金，不能为负。
func NewTrader(initialCash decimal.Decimal, bars BarSource, opts Options) (*Trader, error) {
	if bars == nil {
		return nil, fmt.Errorf("trading: 行情源不能为空")
	}
	if initialCash.IsNegative() {
		return nil, fmt.Errorf("trading: 初始现金不能为负")
	}

	policy := opts.Policy
	if policy.MarketReference == "" {
		policy = DefaultFillPolicy()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Trader{
		portfolio: NewPortfolio(initialCash),
		byID:      make(map[string]*Order),
		bars:      bars,
		policy:    policy,
		recorder:  opts.Recorder,
		logger:    logger,
	}, nil
}

// Buy 以市价买入。下单时不冻结现金，资金在成交时才占用。
func (t *Trader) Buy(code string, quantity int64) (*Order, error) {
	return t.place(SideBuy, code, quantity, OrderTypeMarket, decimal.Zero)
}

// BuyLimit 以限价买入。
func (t *Trader) BuyLimit(code string, quantity int64, price decimal.Decimal) (*Order, error) {
	return t.place(SideBuy, code, quantity, OrderTypeLimit, price)
}

// Sell 以市价卖出。
func (t *Trader) Sell(code string, quantity int64) (*Order, error) {
	return t.place(SideSell, code, quantity, OrderTypeMarket, decimal.Zero)
}

// SellLimit 以限价卖出。
func (t *Trader) SellLimit(code string, quantity int64, price decimal.Decimal) (*Order, error) {
	return t.place(SideSell, code, quantity, OrderTypeLimit, price)
}

func (t *Trader) place(side Side, code string, quantity int64, orderType OrderType, limitPrice decimal.Decimal) (*Order, error) {
	order, err := newOrder(side, code, quantity, orderType, limitPrice)
	if err != nil {
		return nil, err
	}

	t.orders = append(t.orders, order)
	t.byID[order.ID] = order

	t.logger.Debug("已创建订单",
		zap.String("order_id", order.ID),
		zap.String("code", code),
		zap.String("side", string(side)),
		zap.String("type", string(orderType)),
		zap.Int64("quantity", quantity),
	)
	return order, nil
}

// Cancel 撤销订单，仅允许从 PENDING / PARTIALLY_FILLED 流转到 CANCELLED。
func (t *Trader) Cancel(orderID string) error {
	order, ok := t.byID[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if order.IsTerminal() {
		return ErrOrderTerminal
	}
	order.Status = OrderStatusCancelled
	return nil
}

// Order 按 ID 查找订单。
func (t *Trader) Order(orderID string) (*Order, bool) {
	order, ok := t.byID[orderID]
	return order, ok
}

// Orders 返回全部订单，按下单先后排列。
func (t *Trader) Orders() []*Order {
	return append([]*Order(nil), t.orders...)
}

// Cash 返回当前现金余额。
func (t *Trader) Cash() decimal.Decimal {
	return t.portfolio.Cash()
}

// Portfolio 返回组合（由 Trader 独占持有，调用方只读使用）。
func (t *Trader) Portfolio() *Portfolio {
	return t.portfolio
}

// Position 返回指定标的的持仓副本。
func (t *Trader) Position(code string) (Position, bool) {
	return t.portfolio.Position(code)
}

// SimulateFills 以日期 day 的行情撮合全部未终态订单，返回本次产生的成交。
// 订单按下单先后（FIFO）处理；已结算过的日期直接返回空结果，保证幂等。
// 资金或持仓不足只会把订单置为 REJECTED，不会中断其他订单的撮合。
func (t *Trader) SimulateFills(ctx context.Context, day models.Date) ([]Execution, error) {
	if !t.lastSimulated.IsZero() && !day.After(t.lastSimulated.Time) {
		t.logger.Debug("日期已结算，跳过", zap.Stringer("date", day))
		return nil, nil
	}

	var executions []Execution
	for _, order := range t.orders {
		if order.IsTerminal() {
			continue
		}

		bar, ok, err := t.bars.PriceBar(ctx, order.Code, day)
		if err != nil {
			return executions, &MarketDataUnavailableError{Code: order.Code, Date: day, Err: err}
		}
		if !ok {
			// 非交易日或无行情，留待下一个模拟日重试。
			continue
		}

		price, matched := t.policy.matchPrice(order, bar)
		if !matched {
			continue
		}

		exec, ok := t.settle(order, price, day)
		if !ok {
			continue
		}
		executions = append(executions, exec)

		if t.recorder != nil {
			if err := t.recorder.RecordExecution(ctx, exec); err != nil {
				t.logger.Warn("记录成交流水失败",
					zap.String("order_id", order.ID),
					zap.Error(err),
				)
			}
		}
	}

	t.lastSimulated = day
	return executions, nil
}

// settle 校验资金与持仓后落账。校验失败时订单转为 REJECTED。
func (t *Trader) settle(order *Order, price decimal.Decimal, day models.Date) (Execution, bool) {
	quantity := order.Quantity - order.FilledQuantity
	cost := price.Mul(decimal.NewFromInt(quantity))
	realized := decimal.Zero

	switch order.Side {
	case SideBuy:
		if cost.GreaterThan(t.portfolio.Cash()) {
			order.reject(RejectInsufficientCash)
			t.logger.Info("现金不足，订单被拒绝",
				zap.String("order_id", order.ID),
				zap.String("code", order.Code),
				zap.String("cost", cost.String()),
				zap.String("cash", t.portfolio.Cash().String()),
			)
			return Execution{}, false
		}
		t.portfolio.applyBuyFill(order.Code, quantity, price)

	case SideSell:
		pos, ok := t.portfolio.Position(order.Code)
		if !ok || pos.Quantity < quantity {
			order.reject(RejectInsufficientPosition)
			t.logger.Info("持仓不足，订单被拒绝",
				zap.String("order_id", order.ID),
				zap.String("code", order.Code),
				zap.Int64("quantity", quantity),
				zap.Int64("held", pos.Quantity),
			)
			return Execution{}, false
		}
		realized = t.portfolio.applySellFill(order.Code, quantity, price)
	}

	order.fill(quantity, price)

	fields := []zap.Field{
		zap.String("order_id", order.ID),
		zap.String("code", order.Code),
		zap.String("side", string(order.Side)),
		zap.Int64("quantity", quantity),
		zap.String("price", price.String()),
		zap.Stringer("date", day),
	}
	if order.Side == SideSell {
		fields = append(fields, zap.String("realized_pnl", realized.String()))
	}
	t.logger.Info("订单成交", fields...)

	return Execution{
		OrderID:  order.ID,
		Code:     order.Code,
		Side:     order.Side,
		Quantity: quantity,
		Price:    price,
		Date:     day,
	}, true
}
