package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Date 封装交易日日期，兼容 V2 接口返回的 "2024-01-15" 与 "20240115" 两种编码。
type Date struct {
	time.Time
}

// NewDate 以 UTC 零点构建 Date。
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf 将任意时间截断为 Date。
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate 解析日期字符串。
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	layout := dateLayout
	if !strings.Contains(s, "-") {
		layout = "20060102"
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("models: 解析日期 %q 失败: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String 输出 ISO 格式日期。
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Param 输出接口查询参数使用的 yyyymmdd 格式。
func (d Date) Param() string {
	return d.Format("20060102")
}

// IsZero 判断日期是否未设置。
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// Equal 比较两个日期是否为同一天。
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// Num 在 decimal.Decimal 基础上兼容接口返回的空串、字符串与数字三种编码。
// 权限不足或停牌时 V2 会返回空串，此时视为缺失。
type Num struct {
	decimal.Decimal
	Valid bool
}

// N 从字符串构建 Num，仅用于测试与常量场景，解析失败会 panic。
func N(s string) Num {
	return Num{Decimal: decimal.RequireFromString(s), Valid: true}
}

func (n *Num) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = Num{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = Num{Decimal: d, Valid: true}
	return nil
}

func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Decimal.MarshalJSON()
}
