package jquants

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// idTokenLifetime 为 ID token 的有效期，官方为 24 小时，留 1 小时余量。
const idTokenLifetime = 23 * time.Hour

// TokenManager 管理 J-Quants 的 token 生命周期：
// 邮箱密码换取 refresh token，refresh token 换取 ID token。
type TokenManager struct {
	mailAddress  string
	password     string
	refreshToken string

	mu            sync.Mutex
	idToken       string
	idTokenExpiry time.Time

	baseURL string
	hc      *http.Client
}

// NewTokenManager 创建 TokenManager。凭证允许为空，真正发起请求时才校验。
func NewTokenManager(mailAddress, password, refreshToken, baseURL string, hc *http.Client) *TokenManager {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenManager{
		mailAddress:  mailAddress,
		password:     password,
		refreshToken: refreshToken,
		baseURL:      baseURL,
		hc:           hc,
	}
}

// IsAuthenticated 判断是否持有可用凭证。
func (m *TokenManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken != "" || (m.mailAddress != "" && m.password != "")
}

// IDToken 返回有效的 ID token，过期时自动刷新。
func (m *TokenManager) IDToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idToken != "" && time.Now().Before(m.idTokenExpiry) {
		return m.idToken, nil
	}
	return m.obtainIDToken(ctx)
}

// Invalidate 丢弃当前 ID token，下次请求时强制刷新。
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idToken = ""
	m.idTokenExpiry = time.Time{}
}

func (m *TokenManager) obtainRefreshToken(ctx context.Context) error {
	if m.mailAddress == "" || m.password == "" {
		return ErrNoCredentials
	}

	body, err := json.Marshal(map[string]string{
		"mailaddress": m.mailAddress,
		"password":    m.password,
	})
	if err != nil {
		return fmt.Errorf("jquants: 序列化认证请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/token/auth_user", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("jquants: 构建认证请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.hc.Do(req)
	if err != nil {
		return fmt.Errorf("jquants: 认证请求失败: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrAuthentication, string(payload))
	}

	var data struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("jquants: 解析认证响应失败: %w", err)
	}
	if data.RefreshToken == "" {
		return fmt.Errorf("%w: 响应中缺少 refreshToken", ErrAuthentication)
	}

	m.refreshToken = data.RefreshToken
	return nil
}

func (m *TokenManager) obtainIDToken(ctx context.Context) (string, error) {
	if m.refreshToken == "" {
		if err := m.obtainRefreshToken(ctx); err != nil {
			return "", err
		}
	}

	token, err := m.exchangeIDToken(ctx)
	if err == nil {
		return token, nil
	}

	// refresh token 失效时退回邮箱密码重新走一遍流程。
	if m.mailAddress != "" && m.password != "" {
		m.refreshToken = ""
		if authErr := m.obtainRefreshToken(ctx); authErr != nil {
			return "", authErr
		}
		return m.exchangeIDToken(ctx)
	}

	return "", fmt.Errorf("%w: %v", ErrTokenExpired, err)
}

func (m *TokenManager) exchangeIDToken(ctx context.Context) (string, error) {
	endpoint := m.baseURL + "/token/auth_refresh?refreshtoken=" + url.QueryEscape(m.refreshToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("jquants: 构建刷新请求失败: %w", err)
	}

	resp, err := m.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("jquants: 刷新请求失败: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrTokenExpired, string(payload))
	}

	var data struct {
		IDToken string `json:"idToken"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return "", fmt.Errorf("jquants: 解析刷新响应失败: %w", err)
	}
	if data.IDToken == "" {
		return "", fmt.Errorf("%w: 响应中缺少 idToken", ErrAuthentication)
	}

	m.idToken = data.IDToken
	m.idTokenExpiry = time.Now().Add(idTokenLifetime)
	return m.idToken, nil
}
