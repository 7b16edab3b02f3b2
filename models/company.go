package models

// StockInfo 表示上市公司基础信息。
type StockInfo struct {
	Code               string `json:"Code"`
	CompanyName        string `json:"CompanyName"`
	CompanyNameEnglish string `json:"CompanyNameEnglish"`
	Sector17Code       string `json:"Sector17Code"`
	Sector17Name       string `json:"Sector17CodeName"`
	Sector33Code       string `json:"Sector33Code"`
	Sector33Name       string `json:"Sector33CodeName"`
	MarketCode         string `json:"MarketCode"`
	MarketName         string `json:"MarketCodeName"`
	ScaleCategory      string `json:"ScaleCategory"`
	Date               Date   `json:"Date"`
}

// Sector 表示 17/33 业种分类。
type Sector struct {
	Code        string `json:"Code"`
	Name        string `json:"Name"`
	NameEnglish string `json:"NameEnglish"`
}
