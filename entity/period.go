package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePeriod 将周期字符串解析为天数，如 "30d"、"1w"、"6mo"、"1y"。
// 纯数字视为天数。
func ParsePeriod(period string) (int, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" {
		return 0, fmt.Errorf("entity: 周期不能为空")
	}

	parse := func(s string, factor int) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("entity: 无法解析周期 %q: %w", period, err)
		}
		return n * factor, nil
	}

	switch {
	case strings.HasSuffix(p, "mo"):
		return parse(strings.TrimSuffix(p, "mo"), 30)
	case strings.HasSuffix(p, "d"):
		return parse(strings.TrimSuffix(p, "d"), 1)
	case strings.HasSuffix(p, "w"):
		return parse(strings.TrimSuffix(p, "w"), 7)
	case strings.HasSuffix(p, "m"):
		return parse(strings.TrimSuffix(p, "m"), 30)
	case strings.HasSuffix(p, "y"):
		return parse(strings.TrimSuffix(p, "y"), 365)
	default:
		return parse(p, 1)
	}
}
