package trading

import (
	"errors"
	"fmt"

	"github.com/obichan117/pyjquants/models"
)

// InvalidOrderError 表示下单参数不合法。下单时即拒绝，不会产生 Order。
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("trading: 无效订单: %s", e.Reason)
}

// IsInvalidOrder 判断错误是否为下单参数错误。
func IsInvalidOrder(err error) bool {
	var invalid *InvalidOrderError
	return errors.As(err, &invalid)
}

// MarketDataUnavailableError 表示行情源无法响应查询，
// 例如标的不存在或日期早于全部行情历史。单纯的非交易日不属于此类。
type MarketDataUnavailableError struct {
	Code string
	Date models.Date
	Err  error
}

func (e *MarketDataUnavailableError) Error() string {
	return fmt.Sprintf("trading: 无法获取 %s 在 %s 的行情: %v", e.Code, e.Date, e.Err)
}

func (e *MarketDataUnavailableError) Unwrap() error {
	return e.Err
}

// ErrOrderNotFound 表示指定订单不存在。
var ErrOrderNotFound = errors.New("trading: 订单不存在")

// ErrOrderTerminal 表示订单已处于终态，无法撤销。
var ErrOrderTerminal = errors.New("trading: 订单已处于终态")

// 成交时拒绝原因，记录在 Order.RejectReason 上，SimulateFills 本身不报错。
const (
	RejectInsufficientCash     = "INSUFFICIENT_CASH"
	RejectInsufficientPosition = "INSUFFICIENT_POSITION"
)
