package models

// FinancialStatement 表示决算短信摘要（V2 接口缩写字段名）。
// 覆盖当期实绩、当期与次期业绩预想、分红实绩与预想、株式数据。
type FinancialStatement struct {
	// 元数据
	Code             string `json:"Code"`
	DisclosureDate   Date   `json:"DiscDate"`
	DisclosureTime   string `json:"DiscTime"`
	DisclosureNumber string `json:"DiscNo"`
	TypeOfDocument   string `json:"DocType"`

	// 期间信息
	CurrentPeriodType  string `json:"CurPerType"`
	CurrentPeriodStart string `json:"CurPerSt"`
	CurrentPeriodEnd   string `json:"CurPerEn"`
	CurrentFYStart     string `json:"CurFYSt"`
	CurrentFYEnd       string `json:"CurFYEn"`
	NextFYStart        string `json:"NxtFYSt"`
	NextFYEnd          string `json:"NxtFYEn"`

	// 当期实绩（连结）
	NetSales          Num `json:"Sales"`
	OperatingProfit   Num `json:"OP"`
	OrdinaryProfit    Num `json:"OdP"`
	Profit            Num `json:"NP"`
	EarningsPerShare  Num `json:"EPS"`
	DilutedEPS        Num `json:"DEPS"`
	TotalAssets       Num `json:"TA"`
	Equity            Num `json:"Eq"`
	EquityRatio       Num `json:"EqAR"`
	BookValuePerShare Num `json:"BPS"`
	CFOperating       Num `json:"CFO"`
	CFInvesting       Num `json:"CFI"`
	CFFinancing       Num `json:"CFF"`
	CashEquivalents   Num `json:"CashEq"`

	// 分红实绩
	DividendQ1        Num    `json:"Div1Q"`
	DividendQ2        Num    `json:"Div2Q"`
	DividendQ3        Num    `json:"Div3Q"`
	DividendFY        Num    `json:"DivFY"`
	DividendAnnual    Num    `json:"DivAnn"`
	DividendUnit      string `json:"DivUnit"`
	PayoutRatioAnnual Num    `json:"PayoutRatioAnn"`

	// 当期分红预想
	ForecastDividendQ1        Num `json:"FDiv1Q"`
	ForecastDividendQ2        Num `json:"FDiv2Q"`
	ForecastDividendFY        Num `json:"FDivFY"`
	ForecastDividendAnnual    Num `json:"FDivAnn"`
	ForecastPayoutRatioAnnual Num `json:"FPayoutRatioAnn"`

	// 当期业绩预想（通期）
	ForecastSales Num `json:"FSales"`
	ForecastOP    Num `json:"FOP"`
	ForecastOdP   Num `json:"FOdP"`
	ForecastNP    Num `json:"FNP"`
	ForecastEPS   Num `json:"FEPS"`

	// 次期业绩预想（通期）
	NextForecastSales Num `json:"NxFSales"`
	NextForecastOP    Num `json:"NxFOP"`
	NextForecastOdP   Num `json:"NxFOdP"`
	NextForecastNP    Num `json:"NxFNp"`
	NextForecastEPS   Num `json:"NxFEPS"`

	// 株式数据
	SharesOutstandingFY Num `json:"ShOutFY"`
	TreasurySharesFY    Num `json:"TrShFY"`
	AverageShares       Num `json:"AvgSh"`
}

// Dividend 表示单次分红记录。
type Dividend struct {
	Code             string `json:"Code"`
	RecordDate       Date   `json:"RecordDate"`
	ExDividendDate   Date   `json:"ExDividendDate"`
	PaymentDate      Date   `json:"PaymentDate"`
	DividendPerShare Num    `json:"DividendPerShare"`
}

// EarningsAnnouncement 表示决算发表日程中的一条（V2 接口缩写字段名）。
type EarningsAnnouncement struct {
	Code             string `json:"Code"`
	CompanyName      string `json:"CoName"`
	AnnouncementDate Date   `json:"Date"`
	FiscalYear       string `json:"FY"`
	FiscalQuarter    string `json:"FQ"`
	SectorName       string `json:"SectorNm"`
	Section          string `json:"Section"`
}
