package text

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-textual/internal/formats"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
)

// Renderer 纯文本渲染器：丢弃行内样式，块之间用空行分隔，
// 附件还原为带定界符的 LaTeX 源文本
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer 创建纯文本渲染器
func NewRenderer() *Renderer {
	return &Renderer{logger: zap.NewNop()}
}

// Format 返回渲染器输出的格式
func (r *Renderer) Format() richtext.Format {
	return richtext.FormatText
}

// Render 渲染文档到输出
func (r *Renderer) Render(ctx context.Context, doc *richtext.Document, output io.Writer) error {
	blocks := r.renderBlocks(doc.Content, richtext.IntentNone)
	if _, err := io.WriteString(output, strings.Join(blocks, "\n\n")+"\n"); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

// renderBlocks 按父级意图分段，容器块递归展开
func (r *Renderer) renderBlocks(runs richtext.Text, parent richtext.IntentKind) []string {
	var blocks []string
	for _, block := range richtext.Segment(runs, parent) {
		kind := richtext.IntentNone
		if block.Intent != nil {
			kind = block.Intent.Kind
		}
		switch kind {
		case richtext.IntentBlockquote:
			blocks = append(blocks, strings.Join(r.renderBlocks(block.Runs, kind), "\n"))
		case richtext.IntentList, richtext.IntentOrderedList:
			var items []string
			for _, item := range richtext.Segment(block.Runs, kind) {
				items = append(items, strings.Join(r.renderBlocks(item.Runs, richtext.IntentListItem), "\n"))
			}
			blocks = append(blocks, strings.Join(items, "\n"))
		case richtext.IntentTable:
			var rows []string
			for _, row := range richtext.Segment(block.Runs, kind) {
				var cells []string
				for _, cell := range richtext.Segment(row.Runs, richtext.IntentTableRow) {
					cells = append(cells, flatten(cell.Runs))
				}
				rows = append(rows, strings.Join(cells, "\t"))
			}
			blocks = append(blocks, strings.Join(rows, "\n"))
		case richtext.IntentCodeBlock:
			blocks = append(blocks, strings.TrimSuffix(block.Runs.String(), "\n"))
		default:
			blocks = append(blocks, flatten(block.Runs))
		}
	}
	return blocks
}

// flatten 拼接运行内容，附件还原为 LaTeX 源文本
func flatten(runs richtext.Text) string {
	var sb strings.Builder
	for _, run := range runs {
		if attachment, ok := run.Attributes[richtext.AttrAttachment].(richtext.Attachment); ok {
			if attachment.Block {
				sb.WriteString("$$" + attachment.LaTeX + "$$")
			} else {
				sb.WriteString("$" + attachment.LaTeX + "$")
			}
			continue
		}
		sb.WriteString(run.Content)
	}
	return sb.String()
}

// init 注册纯文本渲染器
func init() {
	formats.RegisterRenderer(richtext.FormatText, func() formats.Renderer {
		return NewRenderer()
	})
}
