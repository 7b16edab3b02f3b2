package trading

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obichan117/pyjquants/models"
)

// Side 表示买卖方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType 表示订单类型。
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// OrderStatus 表示订单状态。终态不再发生流转。
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusRejected        OrderStatus = "REJECTED"
)

// Order 表示一笔买卖指令。意图字段创建后不变，成交状态由撮合引擎维护。
type Order struct {
	ID       string
	Code     string
	Side     Side
	Type     OrderType
	Quantity int64

	// LimitPrice 仅限价单有效。
	LimitPrice decimal.Decimal

	Status         OrderStatus
	FilledQuantity int64
	// AvgFillPrice 为成交数量加权均价，仅在 FilledQuantity > 0 时有意义。
	AvgFillPrice decimal.Decimal
	// RejectReason 记录成交时被拒绝的原因。
	RejectReason string

	CreatedAt time.Time
}

func newOrder(side Side, code string, quantity int64, orderType OrderType, limitPrice decimal.Decimal) (*Order, error) {
	if code == "" {
		return nil, &InvalidOrderError{Reason: "证券代码不能为空"}
	}
	if quantity <= 0 {
		return nil, &InvalidOrderError{Reason: "数量必须为正整数"}
	}
	if orderType == OrderTypeLimit && !limitPrice.IsPositive() {
		return nil, &InvalidOrderError{Reason: "限价单必须指定正的限价"}
	}
	if orderType == OrderTypeMarket {
		limitPrice = decimal.Zero
	}

	return &Order{
		ID:         uuid.NewString(),
		Code:       code,
		Side:       side,
		Type:       orderType,
		Quantity:   quantity,
		LimitPrice: limitPrice,
		Status:     OrderStatusPending,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsTerminal 判断订单是否处于终态。
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// fill 记录一次全量成交，维护数量加权均价。
func (o *Order) fill(quantity int64, price decimal.Decimal) {
	prevFilled := o.FilledQuantity
	o.FilledQuantity += quantity

	if prevFilled == 0 {
		o.AvgFillPrice = price
	} else {
		prevTotal := o.AvgFillPrice.Mul(decimal.NewFromInt(prevFilled))
		newTotal := prevTotal.Add(price.Mul(decimal.NewFromInt(quantity)))
		o.AvgFillPrice = newTotal.Div(decimal.NewFromInt(o.FilledQuantity))
	}

	if o.FilledQuantity >= o.Quantity {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

func (o *Order) reject(reason string) {
	o.Status = OrderStatusRejected
	o.RejectReason = reason
}

// Execution 表示一次成交记录，创建后不可变。
type Execution struct {
	OrderID  string
	Code     string
	Side     Side
	Quantity int64
	Price    decimal.Decimal
	Date     models.Date
}
