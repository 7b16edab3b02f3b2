package entity

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/obichan117/pyjquants/jquants"
	"github.com/obichan117/pyjquants/models"
)

// Stock 表示单只股票，按需拉取基础信息与行情并做会话内缓存。
type Stock struct {
	code    string
	session *jquants.Session
	logger  *zap.Logger

	mu   sync.Mutex
	info *models.StockInfo
}

// NewStock 创建 Stock。code 为 4~5 位证券代码，如 "7203"。
func NewStock(code string, session *jquants.Session, logger *zap.Logger) *Stock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stock{code: code, session: session, logger: logger}
}

// Code 返回证券代码。
func (s *Stock) Code() string {
	return s.code
}

// Info 返回上市基础信息，未知代码返回 jquants.ErrNotFound。
func (s *Stock) Info(ctx context.Context) (models.StockInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.info != nil {
		return *s.info, nil
	}

	params := url.Values{}
	params.Set("code", s.code)
	items, err := jquants.FetchList[models.StockInfo](ctx, s.session, jquants.ListedInfo, params)
	if err != nil {
		return models.StockInfo{}, fmt.Errorf("entity: 获取 %s 基础信息失败: %w", s.code, err)
	}
	if len(items) == 0 {
		return models.StockInfo{}, fmt.Errorf("entity: 代码 %s: %w", s.code, jquants.ErrNotFound)
	}

	s.info = &items[0]
	return *s.info, nil
}

// Name 返回公司名称。
func (s *Stock) Name(ctx context.Context) (string, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return "", err
	}
	return info.CompanyName, nil
}

// NameEnglish 返回公司英文名称。
func (s *Stock) NameEnglish(ctx context.Context) (string, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return "", err
	}
	return info.CompanyNameEnglish, nil
}

// Prices 返回区间内的日次行情，按日期升序。
func (s *Stock) Prices(ctx context.Context, start, end models.Date) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("code", s.code)
	params.Set("from", start.Param())
	params.Set("to", end.Param())

	bars, err := jquants.FetchList[models.PriceBar](ctx, s.session, jquants.DailyQuotes, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取 %s 行情失败: %w", s.code, err)
	}
	return bars, nil
}

// PricesPeriod 返回截至今日、指定周期（如 "30d"、"1y"）的日次行情。
func (s *Stock) PricesPeriod(ctx context.Context, period string) ([]models.PriceBar, error) {
	days, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	end := models.DateOf(time.Now().UTC())
	start := models.DateOf(end.AddDate(0, 0, -days))
	return s.Prices(ctx, start, end)
}

// MorningPrices 返回当日前场四本值。Premium 档位限定，权限不足时返回空列表。
func (s *Stock) MorningPrices(ctx context.Context) ([]models.AMPriceBar, error) {
	params := url.Values{}
	params.Set("code", s.code)

	bars, err := jquants.FetchList[models.AMPriceBar](ctx, s.session, jquants.PricesAM, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取 %s 前场行情失败: %w", s.code, err)
	}
	return bars, nil
}

// Statements 返回全部决算短信摘要，按披露日升序。
func (s *Stock) Statements(ctx context.Context) ([]models.FinancialStatement, error) {
	params := url.Values{}
	params.Set("code", s.code)

	statements, err := jquants.FetchList[models.FinancialStatement](ctx, s.session, jquants.Statements, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取 %s 决算短信失败: %w", s.code, err)
	}
	return statements, nil
}

// Dividends 返回分红记录。
func (s *Stock) Dividends(ctx context.Context) ([]models.Dividend, error) {
	params := url.Values{}
	params.Set("code", s.code)

	dividends, err := jquants.FetchList[models.Dividend](ctx, s.session, jquants.Dividends, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取 %s 分红信息失败: %w", s.code, err)
	}
	return dividends, nil
}

// MarginInterest 返回区间内的周次信用交易残高。
func (s *Stock) MarginInterest(ctx context.Context, start, end models.Date) ([]models.MarginInterest, error) {
	params := url.Values{}
	params.Set("code", s.code)
	params.Set("from", start.Param())
	params.Set("to", end.Param())

	interests, err := jquants.FetchList[models.MarginInterest](ctx, s.session, jquants.MarginInterest, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取 %s 信用残高失败: %w", s.code, err)
	}
	return interests, nil
}

// PriceOn 返回指定日期的行情。非交易日或无数据时第二个返回值为 false。
func (s *Stock) PriceOn(ctx context.Context, day models.Date) (models.PriceBar, bool, error) {
	params := url.Values{}
	params.Set("code", s.code)
	params.Set("date", day.Param())

	bars, err := jquants.FetchList[models.PriceBar](ctx, s.session, jquants.DailyQuotes, params)
	if err != nil {
		return models.PriceBar{}, false, fmt.Errorf("entity: 获取 %s 在 %s 的行情失败: %w", s.code, day, err)
	}
	if len(bars) == 0 || !bars[0].HasQuote() {
		return models.PriceBar{}, false, nil
	}
	return bars[0], true, nil
}
