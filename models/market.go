package models

// 営業日区分。
const (
	HolidayDivisionNonBusiness = "0"
	HolidayDivisionBusiness    = "1"
	HolidayDivisionHalfDayAM   = "2"
	HolidayDivisionHalfDayPM   = "3"
)

// TradingCalendarDay 表示交易日历中的一天。
type TradingCalendarDay struct {
	Date            Date   `json:"Date"`
	HolidayDivision string `json:"HolidayDivision"`
}

// IsTradingDay 判断当日是否为交易日（含半日交易）。
func (d TradingCalendarDay) IsTradingDay() bool {
	return d.HolidayDivision != HolidayDivisionNonBusiness && d.HolidayDivision != ""
}

// ShortSelling 表示按 33 业种汇总的空卖交易代金。
type ShortSelling struct {
	Date         Date   `json:"Date"`
	Sector33Code string `json:"Sector33Code"`
	SellingValue Num    `json:"SellingValue"`
}

// MarginInterest 表示周次信用交易残高。
type MarginInterest struct {
	Code                 string `json:"Code"`
	Date                 Date   `json:"Date"`
	MarginBuyingBalance  int64  `json:"MarginBuyingBalance"`
	MarginSellingBalance int64  `json:"MarginSellingBalance"`
}
