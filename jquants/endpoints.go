package jquants

// Endpoint 以声明方式描述一个 J-Quants 端点。
type Endpoint struct {
	Path        string // 端点路径
	ResponseKey string // 响应 JSON 中数据所在的键
	Paginated   bool   // 是否分页
}

// === 行情 ===

var (
	// DailyQuotes 日次株価四本值。
	DailyQuotes = Endpoint{Path: "/prices/daily_quotes", ResponseKey: "daily_quotes", Paginated: true}
	// PricesAM 前场四本值。
	PricesAM = Endpoint{Path: "/prices/prices_am", ResponseKey: "prices_am"}
	// IndexPrices 各指数四本值。
	IndexPrices = Endpoint{Path: "/indices", ResponseKey: "indices", Paginated: true}
	// IndexTopix TOPIX 指数四本值。
	IndexTopix = Endpoint{Path: "/indices/topix", ResponseKey: "topix", Paginated: true}
)

// === 财务 ===

var (
	// Statements 决算短信摘要。
	Statements = Endpoint{Path: "/fins/statements", ResponseKey: "statements", Paginated: true}
	// Dividends 分红信息。
	Dividends = Endpoint{Path: "/fins/dividend", ResponseKey: "dividend", Paginated: true}
	// EarningsCalendar 决算发表日程。
	EarningsCalendar = Endpoint{Path: "/fins/announcement", ResponseKey: "announcement", Paginated: true}
)

// === 上市信息 ===

var (
	// ListedInfo 上市公司一览。
	ListedInfo = Endpoint{Path: "/listed/info", ResponseKey: "info", Paginated: true}
)

// === 市场 ===

var (
	// TradingCalendar 交易日历。
	TradingCalendar = Endpoint{Path: "/markets/trading_calendar", ResponseKey: "trading_calendar"}
	// Sectors17 17 业种分类。
	Sectors17 = Endpoint{Path: "/markets/sectors/topix17", ResponseKey: "sectors_topix17"}
	// Sectors33 33 业种分类。
	Sectors33 = Endpoint{Path: "/markets/sectors/topix33", ResponseKey: "sectors_topix33"}
	// ShortSelling 业种别空卖交易代金。
	ShortSelling = Endpoint{Path: "/markets/short_selling", ResponseKey: "short_selling", Paginated: true}
	// MarginInterest 周次信用交易残高。
	MarginInterest = Endpoint{Path: "/markets/weekly_margin_interest", ResponseKey: "weekly_margin_interest", Paginated: true}
)
