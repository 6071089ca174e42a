package formats

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/nerdneilsfield/go-textual/pkg/richtext"
)

// Parser 把某种来源格式解析为富文本文档
type Parser interface {
	// Parse 解析输入为富文本文档
	Parse(ctx context.Context, input io.Reader) (*richtext.Document, error)
	// Format 返回解析器支持的格式
	Format() richtext.Format
}

// Renderer 把富文本文档渲染为某种输出格式
type Renderer interface {
	// Render 渲染文档到输出
	Render(ctx context.Context, doc *richtext.Document, output io.Writer) error
	// Format 返回渲染器输出的格式
	Format() richtext.Format
}

// RendererFactory 渲染器工厂函数
type RendererFactory func() Renderer

var (
	rendererMu sync.RWMutex
	renderers  = make(map[richtext.Format]RendererFactory)
)

// RegisterRenderer 注册渲染器工厂，由各格式包在 init 中调用
func RegisterRenderer(format richtext.Format, factory RendererFactory) {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	renderers[format] = factory
}

// NewRenderer 创建指定输出格式的渲染器
func NewRenderer(format richtext.Format) (Renderer, error) {
	rendererMu.RLock()
	factory, ok := renderers[format]
	rendererMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no renderer registered for format %q", format)
	}
	return factory(), nil
}

// RegisteredFormats 返回已注册渲染器的格式列表（排序后）
func RegisteredFormats() []richtext.Format {
	rendererMu.RLock()
	defer rendererMu.RUnlock()
	formats := make([]richtext.Format, 0, len(renderers))
	for f := range renderers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
