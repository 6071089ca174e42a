package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config 命令行工具配置
type Config struct {
	// EmojiCatalog 表情目录 TOML 文件路径，为空时禁用表情替换
	EmojiCatalog string `mapstructure:"emoji_catalog"`
	// EnableEmoji 启用表情短代码展开
	EnableEmoji bool `mapstructure:"enable_emoji"`
	// EnableMath 启用公式模式展开
	EnableMath bool `mapstructure:"enable_math"`
	// NativeMath 让 Markdown 解析器直接解析公式（goldmark-mathjax），绕过后置分词器
	NativeMath bool `mapstructure:"native_math"`
	// SourceEmoji 在解析前对原始标记文本做表情预展开
	SourceEmoji bool `mapstructure:"source_emoji"`
	// OutputFormat 默认输出格式：markdown、html、text
	OutputFormat string `mapstructure:"output_format"`
	// Normalize 解析前先用 markdownfmt 规范化输入
	Normalize bool `mapstructure:"normalize"`
	// Debug 调试日志
	Debug bool `mapstructure:"debug"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		EnableEmoji:  true,
		EnableMath:   true,
		OutputFormat: "markdown",
	}
}

// Load 加载配置。configPath 为空时在当前目录和家目录中搜索 .textual.yaml，
// 找不到配置文件时返回默认配置而不报错。
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("enable_emoji", true)
	v.SetDefault("enable_math", true)
	v.SetDefault("output_format", "markdown")

	v.SetEnvPrefix("TEXTUAL")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".textual")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && configPath == "" {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 校验配置取值
func validate(cfg *Config) error {
	switch cfg.OutputFormat {
	case "", "markdown", "html", "text":
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "markdown"
	}
	return nil
}
