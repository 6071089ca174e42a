package markdown

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-textual/internal/formats"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
)

// Renderer 把富文本文档渲染回 Markdown 源文本。
// 块结构完全由 richtext.Segment 的意图投影驱动。
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer 创建 Markdown 渲染器
func NewRenderer() *Renderer {
	return &Renderer{logger: zap.NewNop()}
}

// Format 返回渲染器输出的格式
func (r *Renderer) Format() richtext.Format {
	return richtext.FormatMarkdown
}

// Render 渲染文档到输出
func (r *Renderer) Render(ctx context.Context, doc *richtext.Document, output io.Writer) error {
	blocks := r.renderBlocks(doc.Content, richtext.IntentNone)
	if _, err := io.WriteString(output, strings.Join(blocks, "\n\n")+"\n"); err != nil {
		return fmt.Errorf("failed to write markdown output: %w", err)
	}
	return nil
}

// renderBlocks 按父级意图分段并逐块渲染，返回每块的文本
func (r *Renderer) renderBlocks(runs richtext.Text, parent richtext.IntentKind) []string {
	var blocks []string
	for _, block := range richtext.Segment(runs, parent) {
		kind := richtext.IntentNone
		if block.Intent != nil {
			kind = block.Intent.Kind
		}
		switch kind {
		case richtext.IntentHeading:
			level := headingLevel(block.Runs)
			blocks = append(blocks, strings.Repeat("#", level)+" "+renderInline(block.Runs))
		case richtext.IntentCodeBlock:
			lang := codeLanguage(block.Runs)
			content := strings.TrimSuffix(block.Runs.String(), "\n")
			blocks = append(blocks, "```"+lang+"\n"+content+"\n```")
		case richtext.IntentBlockquote:
			inner := strings.Join(r.renderBlocks(block.Runs, richtext.IntentBlockquote), "\n\n")
			blocks = append(blocks, prefixLines(inner, "> "))
		case richtext.IntentList:
			blocks = append(blocks, r.renderListItems(block.Runs, richtext.IntentList, func(int) string { return "- " }))
		case richtext.IntentOrderedList:
			blocks = append(blocks, r.renderListItems(block.Runs, richtext.IntentOrderedList, func(i int) string {
				return fmt.Sprintf("%d. ", i+1)
			}))
		case richtext.IntentTable:
			blocks = append(blocks, r.renderTable(block.Runs))
		default:
			blocks = append(blocks, renderInline(block.Runs))
		}
	}
	return blocks
}

// renderListItems 渲染列表项：首行加标记，续行缩进对齐
func (r *Renderer) renderListItems(runs richtext.Text, parent richtext.IntentKind, marker func(int) string) string {
	var items []string
	for i, item := range richtext.Segment(runs, parent) {
		inner := strings.Join(r.renderBlocks(item.Runs, richtext.IntentListItem), "\n")
		m := marker(i)
		lines := strings.Split(inner, "\n")
		for j, line := range lines {
			if j == 0 {
				lines[j] = m + line
			} else {
				lines[j] = strings.Repeat(" ", len(m)) + line
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

// renderTable 渲染表格，首行视为表头并补分隔行
func (r *Renderer) renderTable(runs richtext.Text) string {
	var lines []string
	rows := richtext.Segment(runs, richtext.IntentTable)
	for i, row := range rows {
		var cells []string
		for _, cell := range richtext.Segment(row.Runs, richtext.IntentTableRow) {
			cells = append(cells, renderInline(cell.Runs))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			separators := make([]string, len(cells))
			for j := range separators {
				separators[j] = "---"
			}
			lines = append(lines, "| "+strings.Join(separators, " | ")+" |")
		}
	}
	return strings.Join(lines, "\n")
}

// renderInline 渲染一段运行序列的行内内容
func renderInline(runs richtext.Text) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(renderRun(run))
	}
	return sb.String()
}

// renderRun 渲染单个运行，按属性包裹行内标记
func renderRun(run richtext.Run) string {
	if attachment, ok := run.Attributes[richtext.AttrAttachment].(richtext.Attachment); ok {
		if attachment.Block {
			return "$$" + attachment.LaTeX + "$$"
		}
		return "$" + attachment.LaTeX + "$"
	}
	if run.Attributes.Has(richtext.AttrRawHTML) {
		return run.Content
	}

	content := run.Content
	if run.Attributes.Has(richtext.AttrInlineCode) {
		content = "`" + content + "`"
	}
	if run.Attributes.Has(richtext.AttrBold) {
		content = "**" + content + "**"
	}
	if run.Attributes.Has(richtext.AttrItalic) {
		content = "*" + content + "*"
	}
	if run.Attributes.Has(richtext.AttrStrikethrough) {
		content = "~~" + content + "~~"
	}
	if url, ok := run.Attributes[richtext.AttrImage].(string); ok {
		content = "![" + content + "](" + url + ")"
	} else if url, ok := run.Attributes[richtext.AttrLink].(string); ok {
		content = "[" + content + "](" + url + ")"
	}
	return content
}

// headingLevel 读取标题级别，缺省为 1
func headingLevel(runs richtext.Text) int {
	for _, run := range runs {
		if level, ok := run.Attributes[richtext.AttrHeading].(int); ok {
			return level
		}
	}
	return 1
}

// codeLanguage 读取代码块语言
func codeLanguage(runs richtext.Text) string {
	for _, run := range runs {
		if lang, ok := run.Attributes[richtext.AttrCodeBlock].(string); ok {
			return lang
		}
	}
	return ""
}

// prefixLines 给每一行加前缀
func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// init 注册 Markdown 渲染器
func init() {
	formats.RegisterRenderer(richtext.FormatMarkdown, func() formats.Renderer {
		return NewRenderer()
	})
}
