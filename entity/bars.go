package entity

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/obichan117/pyjquants/jquants"
	"github.com/obichan117/pyjquants/models"
)

// SessionBarSource 以 Session 为后端向模拟交易引擎提供日线行情，
// 实现 trading.BarSource。同一代码的 Stock 实体被复用以命中信息缓存。
type SessionBarSource struct {
	session *jquants.Session
	logger  *zap.Logger

	mu     sync.Mutex
	stocks map[string]*Stock
}

// NewSessionBarSource 创建 SessionBarSource。
func NewSessionBarSource(session *jquants.Session, logger *zap.Logger) *SessionBarSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionBarSource{
		session: session,
		logger:  logger,
		stocks:  make(map[string]*Stock),
	}
}

func (b *SessionBarSource) stock(code string) *Stock {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.stocks[code]; ok {
		return s
	}
	s := NewStock(code, b.session, b.logger)
	b.stocks[code] = s
	return s
}

// PriceBar 返回指定代码在指定日期的行情。
// 未知代码返回 jquants.ErrNotFound；非交易日返回 ok=false 且无错误。
func (b *SessionBarSource) PriceBar(ctx context.Context, code string, day models.Date) (models.PriceBar, bool, error) {
	stock := b.stock(code)

	// 先确认代码存在，未知标的与单纯无行情必须区分。
	if _, err := stock.Info(ctx); err != nil {
		return models.PriceBar{}, false, err
	}

	return stock.PriceOn(ctx, day)
}
