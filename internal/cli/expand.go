package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-textual/internal/config"
	"github.com/nerdneilsfield/go-textual/internal/formats"
	"github.com/nerdneilsfield/go-textual/pkg/emoji"
	"github.com/nerdneilsfield/go-textual/pkg/expand"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
)

var (
	// expand 命令的标志
	expandOutput    string
	expandTo        string
	expandCatalog   string
	expandNoEmoji   bool
	expandNoMath    bool
	expandNative    bool
	expandSource    bool
	expandNormalize bool
)

// newExpandCommand 创建 expand 命令
func newExpandCommand() *cobra.Command {
	expandCmd := &cobra.Command{
		Use:   "expand [flags] input...",
		Short: "解析输入文档并展开表情与公式模式",
		Long: `解析输入文档为富文本运行序列，对每个运行做表情短代码与
数学公式的模式展开，再渲染为目标格式。

单个输入且未指定 --output 时结果写到标准输出；
多个输入时 --output 必须是输出目录，文件名按目标格式换扩展名。

Examples:
  # 展开单个文件到标准输出
  textual expand doc.md

  # 展开为 HTML 并写入文件
  textual expand --to html -o doc.html doc.md

  # 批量展开到目录
  textual expand -o out/ a.md b.md c.md

  # 带表情目录
  textual expand --emoji-catalog emoji.toml doc.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			applyExpandFlags(cmd, cfg)

			catalog, err := loadCatalog(cfg, log)
			if err != nil {
				return err
			}
			processor := buildProcessor(cfg, catalog, log)

			if len(args) == 1 {
				return expandSingle(cmd, cfg, catalog, processor, log, args[0])
			}
			return expandBatch(cfg, catalog, processor, log, args)
		},
	}

	expandCmd.Flags().StringVarP(&expandOutput, "output", "o", "", "输出文件（多个输入时为输出目录）")
	expandCmd.Flags().StringVar(&expandTo, "to", "", "输出格式：markdown、html、text")
	expandCmd.Flags().StringVar(&expandCatalog, "emoji-catalog", "", "表情目录 TOML 文件路径")
	expandCmd.Flags().BoolVar(&expandNoEmoji, "no-emoji", false, "禁用表情短代码展开")
	expandCmd.Flags().BoolVar(&expandNoMath, "no-math", false, "禁用公式模式展开")
	expandCmd.Flags().BoolVar(&expandNative, "native-math", false, "由 Markdown 解析器直接解析公式")
	expandCmd.Flags().BoolVar(&expandSource, "source-emoji", false, "在解析前对原始标记文本做表情预展开")
	expandCmd.Flags().BoolVar(&expandNormalize, "normalize", false, "解析前先规范化 Markdown 输入")

	return expandCmd
}

// applyExpandFlags 用显式指定的标志覆盖配置
func applyExpandFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("to") {
		cfg.OutputFormat = expandTo
	}
	if cmd.Flags().Changed("emoji-catalog") {
		cfg.EmojiCatalog = expandCatalog
	}
	if expandNoEmoji {
		cfg.EnableEmoji = false
	}
	if expandNoMath {
		cfg.EnableMath = false
	}
	if cmd.Flags().Changed("native-math") {
		cfg.NativeMath = expandNative
	}
	if cmd.Flags().Changed("source-emoji") {
		cfg.SourceEmoji = expandSource
	}
	if cmd.Flags().Changed("normalize") {
		cfg.Normalize = expandNormalize
	}
}

// expandSingle 展开单个输入，未指定输出文件时写到标准输出
func expandSingle(cmd *cobra.Command, cfg *config.Config, catalog *emoji.Catalog, processor *expand.Processor, log *zap.Logger, input string) error {
	if expandOutput == "" {
		return expandFile(cfg, catalog, processor, log, input, cmd.OutOrStdout())
	}

	out, err := os.Create(expandOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()
	if err := expandFile(cfg, catalog, processor, log, input, out); err != nil {
		return err
	}
	color.Green("✓ %s -> %s", input, expandOutput)
	return nil
}

// expandBatch 批量展开多个输入到输出目录，带进度条
func expandBatch(cfg *config.Config, catalog *emoji.Catalog, processor *expand.Processor, log *zap.Logger, inputs []string) error {
	if expandOutput == "" {
		return fmt.Errorf("multiple inputs require --output directory")
	}
	if err := os.MkdirAll(expandOutput, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	bar, err := pterm.DefaultProgressbar.WithTotal(len(inputs)).WithTitle("expanding").Start()
	if err != nil {
		return fmt.Errorf("failed to start progress bar: %w", err)
	}
	for _, input := range inputs {
		bar.UpdateTitle(filepath.Base(input))
		target := filepath.Join(expandOutput, outputName(input, richtext.Format(cfg.OutputFormat)))
		if err := expandToPath(cfg, catalog, processor, log, input, target); err != nil {
			_, _ = bar.Stop()
			return fmt.Errorf("failed to expand %s: %w", input, err)
		}
		bar.Increment()
	}
	_, _ = bar.Stop()

	color.Green("✓ %d 个文件已写入 %s", len(inputs), expandOutput)
	return nil
}

// expandToPath 展开单个输入并写入目标路径
func expandToPath(cfg *config.Config, catalog *emoji.Catalog, processor *expand.Processor, log *zap.Logger, input, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()
	return expandFile(cfg, catalog, processor, log, input, out)
}

// expandFile 执行完整流水线：解析、展开、渲染
func expandFile(cfg *config.Config, catalog *emoji.Catalog, processor *expand.Processor, log *zap.Logger, input string, output io.Writer) error {
	ctx := context.Background()

	doc, err := parseDocument(ctx, cfg, catalog, log, input)
	if err != nil {
		return err
	}
	doc.Content = processor.Expand(doc.Content)

	renderer, err := formats.NewRenderer(richtext.Format(cfg.OutputFormat))
	if err != nil {
		return err
	}
	if err := renderer.Render(ctx, doc, output); err != nil {
		return err
	}

	log.Debug("document expanded",
		zap.String("input", input),
		zap.String("output_format", cfg.OutputFormat),
		zap.Int("runs", len(doc.Content)))
	return nil
}

// outputName 按目标格式替换输入文件的扩展名
func outputName(input string, format richtext.Format) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	switch format {
	case richtext.FormatHTML:
		return base + ".html"
	case richtext.FormatText:
		return base + ".txt"
	default:
		return base + ".md"
	}
}
