package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了库运行所需的全部配置项。
type Config struct {
	Auth      AuthConfig      `mapstructure:"auth"`
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Trading   TradingConfig   `mapstructure:"trading"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AuthConfig 描述 J-Quants 认证信息。
// 邮箱密码与 refresh token 二选一，都存在时优先使用 refresh token。
type AuthConfig struct {
	MailAddress  string `mapstructure:"mail_address"`
	Password     string `mapstructure:"password"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// HasCredentials 判断是否持有任一可用凭证。
func (a AuthConfig) HasCredentials() bool {
	return a.RefreshToken != "" || (a.MailAddress != "" && a.Password != "")
}

// APIConfig 控制接口访问参数。
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig 控制响应缓存。
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	TTL       time.Duration `mapstructure:"ttl"`
	MaxSizeMB int           `mapstructure:"max_size_mb"`
}

// RateLimitConfig 控制客户端限流。
// V2 各档位配额：Free=5、Light=60、Standard=120、Premium=500 次/分钟。
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// TradingConfig 控制模拟交易参数。
type TradingConfig struct {
	InitialCash         string `mapstructure:"initial_cash"`
	MarketFillReference string `mapstructure:"market_fill_reference"`
}

// JournalConfig 控制成交流水落盘。
type JournalConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Path            string        `mapstructure:"path"`
	InMemory        bool          `mapstructure:"in_memory"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.API.BaseURL == "" {
		err = multierr.Append(err, errors.New("api.base_url 不能为空"))
	}
	if c.API.Timeout <= 0 {
		err = multierr.Append(err, errors.New("api.timeout 必须大于0"))
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		err = multierr.Append(err, errors.New("rate_limit.requests_per_minute 必须大于0"))
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			err = multierr.Append(err, errors.New("cache.ttl 必须大于0"))
		}
		if c.Cache.MaxSizeMB <= 0 {
			err = multierr.Append(err, errors.New("cache.max_size_mb 必须大于0"))
		}
	}
	switch c.Trading.MarketFillReference {
	case "open", "close":
	default:
		err = multierr.Append(err, errors.New("trading.market_fill_reference 只支持 open 或 close"))
	}
	if c.Journal.Enabled {
		if c.Journal.Path == "" && !c.Journal.InMemory {
			err = multierr.Append(err, errors.New("journal.path 不能为空"))
		}
		if c.Journal.MaxOpenConns <= 0 {
			err = multierr.Append(err, errors.New("journal.max_open_conns 必须大于0"))
		}
		if c.Journal.MaxIdleConns < 0 {
			err = multierr.Append(err, errors.New("journal.max_idle_conns 不能为负"))
		}
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
