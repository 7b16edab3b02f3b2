package entity

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/obichan117/pyjquants/jquants"
	"github.com/obichan117/pyjquants/models"
)

// Market 提供交易日历与业种分类查询。
type Market struct {
	session *jquants.Session

	mu        sync.Mutex
	sectors17 []models.Sector
	sectors33 []models.Sector
}

// NewMarket 创建 Market。
func NewMarket(session *jquants.Session) *Market {
	return &Market{session: session}
}

// TradingCalendar 返回区间内的交易日历。
func (m *Market) TradingCalendar(ctx context.Context, start, end models.Date) ([]models.TradingCalendarDay, error) {
	params := url.Values{}
	params.Set("from", start.Param())
	params.Set("to", end.Param())

	days, err := jquants.FetchList[models.TradingCalendarDay](ctx, m.session, jquants.TradingCalendar, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取交易日历失败: %w", err)
	}
	return days, nil
}

// IsTradingDay 判断指定日期是否为交易日。
func (m *Market) IsTradingDay(ctx context.Context, day models.Date) (bool, error) {
	days, err := m.TradingCalendar(ctx, day, day)
	if err != nil {
		return false, err
	}
	if len(days) == 0 {
		return false, nil
	}
	return days[0].IsTradingDay(), nil
}

// TradingDays 返回区间内的全部交易日。
func (m *Market) TradingDays(ctx context.Context, start, end models.Date) ([]models.Date, error) {
	calendar, err := m.TradingCalendar(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var days []models.Date
	for _, day := range calendar {
		if day.IsTradingDay() {
			days = append(days, day.Date)
		}
	}
	return days, nil
}

// NextTradingDay 返回给定日期之后最近的交易日，最多向后探查 10 天。
func (m *Market) NextTradingDay(ctx context.Context, from models.Date) (models.Date, error) {
	check := models.DateOf(from.AddDate(0, 0, 1))
	for i := 0; i < 10; i++ {
		ok, err := m.IsTradingDay(ctx, check)
		if err != nil {
			return models.Date{}, err
		}
		if ok {
			return check, nil
		}
		check = models.DateOf(check.AddDate(0, 0, 1))
	}
	return models.Date{}, fmt.Errorf("entity: %s 之后 10 天内没有交易日", from)
}

// PrevTradingDay 返回给定日期之前最近的交易日，最多向前探查 10 天。
func (m *Market) PrevTradingDay(ctx context.Context, from models.Date) (models.Date, error) {
	check := models.DateOf(from.AddDate(0, 0, -1))
	for i := 0; i < 10; i++ {
		ok, err := m.IsTradingDay(ctx, check)
		if err != nil {
			return models.Date{}, err
		}
		if ok {
			return check, nil
		}
		check = models.DateOf(check.AddDate(0, 0, -1))
	}
	return models.Date{}, fmt.Errorf("entity: %s 之前 10 天内没有交易日", from)
}

// EarningsCalendar 返回决算发表日程。
func (m *Market) EarningsCalendar(ctx context.Context) ([]models.EarningsAnnouncement, error) {
	announcements, err := jquants.FetchList[models.EarningsAnnouncement](ctx, m.session, jquants.EarningsCalendar, nil)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取决算发表日程失败: %w", err)
	}
	return announcements, nil
}

// ShortSelling 返回区间内按 33 业种汇总的空卖交易代金。
// sector33 非空时仅返回该业种。
func (m *Market) ShortSelling(ctx context.Context, sector33 string, start, end models.Date) ([]models.ShortSelling, error) {
	params := url.Values{}
	params.Set("from", start.Param())
	params.Set("to", end.Param())
	if sector33 != "" {
		params.Set("sector33code", sector33)
	}

	records, err := jquants.FetchList[models.ShortSelling](ctx, m.session, jquants.ShortSelling, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取空卖统计失败: %w", err)
	}
	return records, nil
}

// Sectors33 返回 33 业种分类，结果在会话内缓存。
func (m *Market) Sectors33(ctx context.Context) ([]models.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sectors33 != nil {
		return m.sectors33, nil
	}
	sectors, err := jquants.FetchList[models.Sector](ctx, m.session, jquants.Sectors33, nil)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取33业种分类失败: %w", err)
	}
	m.sectors33 = sectors
	return sectors, nil
}

// Sectors17 返回 17 业种分类，结果在会话内缓存。
func (m *Market) Sectors17(ctx context.Context) ([]models.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sectors17 != nil {
		return m.sectors17, nil
	}
	sectors, err := jquants.FetchList[models.Sector](ctx, m.session, jquants.Sectors17, nil)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取17业种分类失败: %w", err)
	}
	m.sectors17 = sectors
	return sectors, nil
}
