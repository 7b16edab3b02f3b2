package entity

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/obichan117/pyjquants/jquants"
	"github.com/obichan117/pyjquants/models"
)

// downloadConcurrency 控制批量下载的并发度，避免瞬间吃满限流配额。
const downloadConcurrency = 4

// Universe 表示一组股票，支持批量行情下载。
type Universe struct {
	codes   []string
	session *jquants.Session
	logger  *zap.Logger
}

// NewUniverse 创建 Universe。
func NewUniverse(codes []string, session *jquants.Session, logger *zap.Logger) *Universe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Universe{
		codes:   append([]string(nil), codes...),
		session: session,
		logger:  logger,
	}
}

// Codes 返回代码列表的副本。
func (u *Universe) Codes() []string {
	return append([]string(nil), u.codes...)
}

// Download 并发拉取全部代码在区间内的日次行情，任一代码失败则整体失败。
func (u *Universe) Download(ctx context.Context, start, end models.Date) (map[string][]models.PriceBar, error) {
	result := make(map[string][]models.PriceBar, len(u.codes))
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(downloadConcurrency)

	for _, code := range u.codes {
		code := code
		group.Go(func() error {
			stock := NewStock(code, u.session, u.logger)
			bars, err := stock.Prices(gctx, start, end)
			if err != nil {
				return err
			}
			mu.Lock()
			result[code] = bars
			mu.Unlock()
			u.logger.Debug("下载行情完成", zap.String("code", code), zap.Int("bars", len(bars)))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
