package entity

import (
	"context"
	"fmt"
	"net/url"

	"github.com/obichan117/pyjquants/jquants"
	"github.com/obichan117/pyjquants/models"
)

// Index 表示股价指数。TOPIX 走专用端点，其余指数按代码查询。
type Index struct {
	code    string
	session *jquants.Session
}

// NewTopix 创建 TOPIX 指数实体。
func NewTopix(session *jquants.Session) *Index {
	return &Index{session: session}
}

// NewIndex 按指数代码创建实体，如 "0028"（TOPIX500）。
func NewIndex(code string, session *jquants.Session) *Index {
	return &Index{code: code, session: session}
}

// Prices 返回区间内的指数四本值。
func (i *Index) Prices(ctx context.Context, start, end models.Date) ([]models.IndexPrice, error) {
	params := url.Values{}
	params.Set("from", start.Param())
	params.Set("to", end.Param())

	endpoint := jquants.IndexTopix
	if i.code != "" {
		endpoint = jquants.IndexPrices
		params.Set("code", i.code)
	}

	prices, err := jquants.FetchList[models.IndexPrice](ctx, i.session, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("entity: 获取指数行情失败: %w", err)
	}
	return prices, nil
}
