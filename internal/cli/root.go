package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-textual/internal/config"
	"github.com/nerdneilsfield/go-textual/internal/formats/html"
	"github.com/nerdneilsfield/go-textual/internal/formats/markdown"
	"github.com/nerdneilsfield/go-textual/internal/formatter"
	"github.com/nerdneilsfield/go-textual/internal/logger"
	"github.com/nerdneilsfield/go-textual/pkg/emoji"
	"github.com/nerdneilsfield/go-textual/pkg/expand"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
	"github.com/nerdneilsfield/go-textual/pkg/tokenizer"

	// 注册纯文本渲染器
	_ "github.com/nerdneilsfield/go-textual/internal/formats/text"
)

var (
	// 命令行标志变量
	cfgFile     string
	debugMode   bool
	verboseMode bool // 显示详细日志
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "textual",
		Short: "textual 是一个富文本标记模式展开工具",
		Long: `textual 把 Markdown 或 HTML 文档解析为带属性的富文本运行序列，
在运行序列上做表情短代码与数学公式的模式展开，再渲染回目标格式。

支持的输出格式:
  - markdown: GitHub 风格 Markdown
  - html: HTML 片段
  - text: 纯文本`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径（默认搜索 .textual.yaml）")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试日志")
	rootCmd.PersistentFlags().BoolVar(&verboseMode, "verbose", false, "控制台详细日志")

	rootCmd.AddCommand(newExpandCommand())
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newSegmentCommand())
	rootCmd.AddCommand(newEmojiCommand())

	return rootCmd
}

// setup 加载配置并初始化日志
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if debugMode {
		cfg.Debug = true
	}
	log := logger.NewLoggerWithVerbose(cfg.Debug, verboseMode)
	return cfg, log, nil
}

// loadCatalog 按配置加载表情目录，未配置目录或禁用表情时返回 nil
func loadCatalog(cfg *config.Config, log *zap.Logger) (*emoji.Catalog, error) {
	if !cfg.EnableEmoji || cfg.EmojiCatalog == "" {
		return nil, nil
	}
	catalog, err := emoji.LoadCatalog(cfg.EmojiCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load emoji catalog: %w", err)
	}
	log.Debug("emoji catalog loaded",
		zap.String("path", cfg.EmojiCatalog),
		zap.Int("shortcodes", catalog.Len()))
	return catalog, nil
}

// buildPatterns 按配置组装分词模式，块级公式排在行内公式之前
func buildPatterns(cfg *config.Config) []tokenizer.Pattern {
	var patterns []tokenizer.Pattern
	if cfg.EnableEmoji {
		patterns = append(patterns, tokenizer.EmojiPattern())
	}
	if cfg.EnableMath {
		patterns = append(patterns, tokenizer.MathBlockPattern(), tokenizer.MathInlinePattern())
	}
	return patterns
}

// buildProcessor 按配置组装展开处理器。启用 NativeMath 时公式已在
// 解析期变成附件，不再注册公式规则。
func buildProcessor(cfg *config.Config, catalog *emoji.Catalog, log *zap.Logger) *expand.Processor {
	var rules []expand.Rule
	if catalog != nil {
		rules = append(rules, expand.EmojiRule(catalog))
	}
	if cfg.EnableMath && !cfg.NativeMath {
		rules = append(rules, expand.MathRule())
	}
	return expand.NewProcessor(rules, log)
}

// parseDocument 按扩展名选择解析器读取输入文件
func parseDocument(ctx context.Context, cfg *config.Config, catalog *emoji.Catalog, log *zap.Logger, path string) (*richtext.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return html.NewParser(log).Parse(ctx, bytes.NewReader(content))
	default:
		if cfg.Normalize {
			normalized, err := formatter.NewMarkdownNormalizer(log).Normalize(content)
			if err != nil {
				return nil, err
			}
			content = normalized
		}
		opts := []markdown.Option{markdown.WithLogger(log)}
		if cfg.EnableMath && cfg.NativeMath {
			opts = append(opts, markdown.WithNativeMath())
		}
		if cfg.SourceEmoji && catalog != nil {
			opts = append(opts, markdown.WithSourceEmoji(catalog))
		}
		return markdown.NewParser(opts...).Parse(ctx, bytes.NewReader(content))
	}
}
