package html

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-textual/internal/formats"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
)

// Renderer 把富文本文档渲染为 HTML 片段，
// 块结构由 richtext.Segment 的意图投影递归驱动
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer 创建 HTML 渲染器
func NewRenderer() *Renderer {
	return &Renderer{logger: zap.NewNop()}
}

// Format 返回渲染器输出的格式
func (r *Renderer) Format() richtext.Format {
	return richtext.FormatHTML
}

// Render 渲染文档到输出
func (r *Renderer) Render(ctx context.Context, doc *richtext.Document, output io.Writer) error {
	var sb strings.Builder
	r.renderBlocks(&sb, doc.Content, richtext.IntentNone)
	if _, err := io.WriteString(output, sb.String()); err != nil {
		return fmt.Errorf("failed to write html output: %w", err)
	}
	return nil
}

// renderBlocks 按父级意图分段并逐块渲染
func (r *Renderer) renderBlocks(sb *strings.Builder, runs richtext.Text, parent richtext.IntentKind) {
	for _, block := range richtext.Segment(runs, parent) {
		kind := richtext.IntentNone
		if block.Intent != nil {
			kind = block.Intent.Kind
		}
		switch kind {
		case richtext.IntentHeading:
			level := headingLevelOf(block.Runs)
			fmt.Fprintf(sb, "<h%d>%s</h%d>\n", level, renderInline(block.Runs), level)
		case richtext.IntentParagraph:
			fmt.Fprintf(sb, "<p>%s</p>\n", renderInline(block.Runs))
		case richtext.IntentBlockquote:
			sb.WriteString("<blockquote>\n")
			r.renderBlocks(sb, block.Runs, richtext.IntentBlockquote)
			sb.WriteString("</blockquote>\n")
		case richtext.IntentList:
			sb.WriteString("<ul>\n")
			r.renderListItems(sb, block.Runs, richtext.IntentList)
			sb.WriteString("</ul>\n")
		case richtext.IntentOrderedList:
			sb.WriteString("<ol>\n")
			r.renderListItems(sb, block.Runs, richtext.IntentOrderedList)
			sb.WriteString("</ol>\n")
		case richtext.IntentCodeBlock:
			lang := codeLanguageOf(block.Runs)
			class := ""
			if lang != "" {
				class = fmt.Sprintf(` class="language-%s"`, html.EscapeString(lang))
			}
			fmt.Fprintf(sb, "<pre><code%s>%s</code></pre>\n", class, html.EscapeString(block.Runs.String()))
		case richtext.IntentTable:
			sb.WriteString("<table>\n")
			for _, row := range richtext.Segment(block.Runs, richtext.IntentTable) {
				sb.WriteString("<tr>")
				for _, cell := range richtext.Segment(row.Runs, richtext.IntentTableRow) {
					fmt.Fprintf(sb, "<td>%s</td>", renderInline(cell.Runs))
				}
				sb.WriteString("</tr>\n")
			}
			sb.WriteString("</table>\n")
		default:
			if content := renderInline(block.Runs); content != "" {
				fmt.Fprintf(sb, "<p>%s</p>\n", content)
			}
		}
	}
}

// renderListItems 渲染列表项
func (r *Renderer) renderListItems(sb *strings.Builder, runs richtext.Text, parent richtext.IntentKind) {
	for _, item := range richtext.Segment(runs, parent) {
		sb.WriteString("<li>")
		r.renderBlocks(sb, item.Runs, richtext.IntentListItem)
		sb.WriteString("</li>\n")
	}
}

// renderInline 渲染一段运行序列的行内内容
func renderInline(runs richtext.Text) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(renderRun(run))
	}
	return sb.String()
}

// renderRun 渲染单个运行，按属性包裹标签
func renderRun(run richtext.Run) string {
	if attachment, ok := run.Attributes[richtext.AttrAttachment].(richtext.Attachment); ok {
		class := "math-inline"
		if attachment.Block {
			class = "math-block"
		}
		return fmt.Sprintf(`<span class=%q>%s</span>`, class, html.EscapeString(attachment.LaTeX))
	}
	if url, ok := run.Attributes[richtext.AttrEmoji].(string); ok {
		return fmt.Sprintf(`<img class="emoji" alt=%q src=%q>`, run.Content, url)
	}
	if run.Attributes.Has(richtext.AttrRawHTML) {
		return run.Content
	}

	content := html.EscapeString(run.Content)
	if run.Attributes.Has(richtext.AttrInlineCode) {
		content = "<code>" + content + "</code>"
	}
	if run.Attributes.Has(richtext.AttrBold) {
		content = "<strong>" + content + "</strong>"
	}
	if run.Attributes.Has(richtext.AttrItalic) {
		content = "<em>" + content + "</em>"
	}
	if run.Attributes.Has(richtext.AttrStrikethrough) {
		content = "<del>" + content + "</del>"
	}
	if url, ok := run.Attributes[richtext.AttrImage].(string); ok {
		content = fmt.Sprintf(`<img alt=%q src=%q>`, run.Content, url)
	} else if url, ok := run.Attributes[richtext.AttrLink].(string); ok {
		content = fmt.Sprintf(`<a href=%q>%s</a>`, url, content)
	}
	return content
}

// headingLevelOf 读取标题级别，缺省为 1
func headingLevelOf(runs richtext.Text) int {
	for _, run := range runs {
		if level, ok := run.Attributes[richtext.AttrHeading].(int); ok {
			return level
		}
	}
	return 1
}

// codeLanguageOf 读取代码块语言
func codeLanguageOf(runs richtext.Text) string {
	for _, run := range runs {
		if lang, ok := run.Attributes[richtext.AttrCodeBlock].(string); ok {
			return lang
		}
	}
	return ""
}

// init 注册 HTML 渲染器
func init() {
	formats.RegisterRenderer(richtext.FormatHTML, func() formats.Renderer {
		return NewRenderer()
	})
}
