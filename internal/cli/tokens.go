package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-textual/pkg/tokenizer"
)

var (
	// tokens 命令的标志
	tokensFile   string
	tokensMarkup bool
	tokensWidth  int
)

// newTokensCommand 创建 tokens 命令
func newTokensCommand() *cobra.Command {
	tokensCmd := &cobra.Command{
		Use:   "tokens [flags] [text]",
		Short: "显示一段文本的分词结果",
		Long: `用锚定模式分词器扫描一段文本，按表格输出每个词法单元的
类型、完整内容与捕获内容。未命中任何模式的文本合并为回退单元。

Examples:
  # 分词一段文本
  textual tokens "Hello :smile: and $x+1$"

  # 从文件读取
  textual tokens --file doc.md

  # 用原始标记回退类型（解析前扫描）
  textual tokens --markup ":wave: **bold**"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			input, err := readTokensInput(cmd, args)
			if err != nil {
				return err
			}

			fallback := tokenizer.TypeText
			if tokensMarkup {
				fallback = tokenizer.TypeMarkup
			}
			tok := tokenizer.New(fallback, buildPatterns(cfg)...)
			tokens := tok.Tokenize(input)

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"#", "类型", "内容", "捕获"})
			for i, t := range tokens {
				tw.AppendRow(table.Row{i, typeLabel(t.Type), cell(t.Content), cell(t.Captured)})
			}
			tw.AppendFooter(table.Row{"", "", "单元总数", len(tokens)})
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	}

	tokensCmd.Flags().StringVarP(&tokensFile, "file", "f", "", "从文件读取输入文本")
	tokensCmd.Flags().BoolVar(&tokensMarkup, "markup", false, "用原始标记回退类型（解析前扫描）")
	tokensCmd.Flags().IntVar(&tokensWidth, "width", 40, "内容列最大显示宽度")

	return tokensCmd
}

// readTokensInput 读取输入文本：参数、文件或标准输入
func readTokensInput(cmd *cobra.Command, args []string) (string, error) {
	if tokensFile != "" {
		content, err := os.ReadFile(tokensFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(content), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(content), nil
}

// typeLabel 给类型上色：回退类型灰色，模式类型青色
func typeLabel(typ tokenizer.Type) string {
	if typ.IsFallback() {
		return color.HiBlackString(string(typ))
	}
	return color.CyanString(string(typ))
}

// cell 把内容压成单行并截断到显示宽度
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	return runewidth.Truncate(s, tokensWidth, "…")
}
