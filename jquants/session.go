package jquants

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/obichan117/pyjquants/config"
)

// Session 封装带认证、限流与响应缓存的 HTTP 会话。
type Session struct {
	cfg     *config.Config
	tokens  *TokenManager
	limiter *rate.Limiter
	cache   *bigcache.BigCache
	hc      *http.Client
	logger  *zap.Logger
	baseURL string
}

// NewSession 根据配置创建 Session。
func NewSession(cfg *config.Config, logger *zap.Logger) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("jquants: 配置不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := &http.Client{Timeout: cfg.API.Timeout}

	var cache *bigcache.BigCache
	if cfg.Cache.Enabled {
		cacheCfg := bigcache.DefaultConfig(cfg.Cache.TTL)
		cacheCfg.HardMaxCacheSize = cfg.Cache.MaxSizeMB
		cacheCfg.CleanWindow = 5 * time.Minute
		var err error
		cache, err = bigcache.New(context.Background(), cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("jquants: 初始化响应缓存失败: %w", err)
		}
	}

	rpm := cfg.RateLimit.RequestsPerMinute
	if rpm <= 0 {
		return nil, fmt.Errorf("jquants: rate_limit.requests_per_minute 必须大于0，当前为 %d", rpm)
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)

	return &Session{
		cfg:     cfg,
		tokens:  NewTokenManager(cfg.Auth.MailAddress, cfg.Auth.Password, cfg.Auth.RefreshToken, cfg.API.BaseURL, hc),
		limiter: limiter,
		cache:   cache,
		hc:      hc,
		logger:  logger,
		baseURL: cfg.API.BaseURL,
	}, nil
}

// Authenticate 主动完成认证流程，提前暴露凭证问题。
func (s *Session) Authenticate(ctx context.Context) error {
	if !s.cfg.Auth.HasCredentials() {
		return ErrNoCredentials
	}
	_, err := s.tokens.IDToken(ctx)
	return err
}

// IsAuthenticated 判断会话是否持有可用凭证。
func (s *Session) IsAuthenticated() bool {
	return s.tokens.IsAuthenticated()
}

// Get 发起一次带认证的 GET 请求，返回响应 JSON 的顶层键值。
func (s *Session) Get(ctx context.Context, path string, params url.Values) (map[string]json.RawMessage, error) {
	return s.get(ctx, path, params, true)
}

func (s *Session) get(ctx context.Context, path string, params url.Values, useCache bool) (map[string]json.RawMessage, error) {
	cacheKey := cacheKey(path, params)
	if useCache && s.cache != nil {
		if data, err := s.cache.Get(cacheKey); err == nil {
			return decodeBody(data)
		}
	}

	body, err := s.request(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if useCache && s.cache != nil {
		if err := s.cache.Set(cacheKey, body); err != nil {
			s.logger.Warn("写入响应缓存失败", zap.String("path", path), zap.Error(err))
		}
	}

	return decodeBody(body)
}

func (s *Session) request(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("jquants: 等待限流配额失败: %w", err)
	}

	body, status, err := s.doOnce(ctx, path, params)
	if err != nil {
		return nil, err
	}

	// 401 时丢弃旧 token 重试一次。
	if status == http.StatusUnauthorized {
		s.tokens.Invalidate()
		body, status, err = s.doOnce(ctx, path, params)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, ErrAuthentication
		}
	}

	switch {
	case status == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case status >= 400:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	return body, nil
}

func (s *Session) doOnce(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	token, err := s.tokens.IDToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("jquants: 构建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("jquants: 请求 %s 失败: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("jquants: 读取响应失败: %w", err)
	}

	return body, resp.StatusCode, nil
}

func decodeBody(body []byte) (map[string]json.RawMessage, error) {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("jquants: 解析响应失败: %w", err)
	}
	return data, nil
}

func cacheKey(path string, params url.Values) string {
	return path + "?" + params.Encode()
}

// FetchList 拉取端点数据并解析为 T 的列表，自动处理分页。
// 权限不足（403）时返回空列表而非错误，订阅档位差异对上层透明。
func FetchList[T any](ctx context.Context, s *Session, ep Endpoint, params url.Values) ([]T, error) {
	merged := url.Values{}
	for key, values := range params {
		merged[key] = values
	}

	var out []T
	for {
		page, err := s.get(ctx, ep.Path, merged, !ep.Paginated)
		if err != nil {
			if IsForbidden(err) {
				s.logger.Debug("订阅档位不含该端点，返回空数据", zap.String("path", ep.Path))
				return nil, nil
			}
			return nil, err
		}

		if raw, ok := page[ep.ResponseKey]; ok {
			var items []T
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("jquants: 解析 %s 响应失败: %w", ep.Path, err)
			}
			out = append(out, items...)
		}

		if !ep.Paginated {
			return out, nil
		}

		var paginationKey string
		if raw, ok := page["pagination_key"]; ok {
			if err := json.Unmarshal(raw, &paginationKey); err != nil {
				return nil, fmt.Errorf("jquants: 解析分页键失败: %w", err)
			}
		}
		if paginationKey == "" {
			return out, nil
		}
		merged.Set("pagination_key", paginationKey)
	}
}
