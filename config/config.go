package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "jquants"

// defaultConfigPaths 为缺省的配置文件搜索路径，按优先级排列。
func defaultConfigPaths() []string {
	paths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".jquants", "config.toml"),
			filepath.Join(home, ".config", "jquants", "config.toml"),
		)
	}
	return append(paths, ".jquants.toml")
}

// Load 读取 TOML 配置文件并结合环境变量返回 Config。
// 优先级：环境变量 > 配置文件 > 默认值。path 为空时依次尝试默认路径，
// 全部缺失时仅使用默认值与环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	explicit := path != ""
	if !explicit {
		for _, candidate := range defaultConfigPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("读取配置文件 %q 失败: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auth.mail_address", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.refresh_token", "")

	v.SetDefault("api.base_url", "https://api.jquants.com/v1")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.max_size_mb", 64)

	v.SetDefault("rate_limit.requests_per_minute", 60)

	v.SetDefault("trading.initial_cash", "1000000")
	v.SetDefault("trading.market_fill_reference", "open")

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "data/executions.db")
	v.SetDefault("journal.in_memory", false)
	v.SetDefault("journal.max_open_conns", 4)
	v.SetDefault("journal.max_idle_conns", 4)
	v.SetDefault("journal.conn_max_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
