package markdown

import (
	"context"
	"fmt"
	"io"
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	gtext "github.com/yuin/goldmark/text"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/nerdneilsfield/go-textual/internal/formats"
	"github.com/nerdneilsfield/go-textual/pkg/emoji"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
	"github.com/nerdneilsfield/go-textual/pkg/tokenizer"
)

// Parser Markdown 解析器：用 goldmark 解析源文本，
// 把 AST 展平为带结构意图层级的运行序列
type Parser struct {
	md          goldmark.Markdown
	sourceEmoji *emoji.Catalog
	nativeMath  bool
	logger      *zap.Logger
}

// Option 解析器选项
type Option func(*Parser)

// WithNativeMath 注册 goldmark-mathjax 扩展，$...$ 与 $$...$$ 在解析期
// 直接变成附件运行，绕过后置分词器
func WithNativeMath() Option {
	return func(p *Parser) {
		p.nativeMath = true
	}
}

// WithSourceEmoji 在解析前对原始标记文本做表情预展开：
// 用 Markup 回退类型的分词器扫描源文本，把已知短代码改写为图片标记
func WithSourceEmoji(catalog *emoji.Catalog) Option {
	return func(p *Parser) {
		p.sourceEmoji = catalog
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser 创建 Markdown 解析器
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	extenders := []goldmark.Extender{
		extension.GFM,
		meta.Meta,
	}
	if p.nativeMath {
		extenders = append(extenders, mathjax.MathJax)
	}
	p.md = goldmark.New(goldmark.WithExtensions(extenders...))
	return p
}

// Format 返回解析器支持的格式
func (p *Parser) Format() richtext.Format {
	return richtext.FormatMarkdown
}

// Parse 解析 Markdown 内容为富文本文档
func (p *Parser) Parse(ctx context.Context, input io.Reader) (*richtext.Document, error) {
	content, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if p.sourceEmoji != nil {
		content = p.expandSourceEmoji(content)
	}

	pctx := parser.NewContext()
	root := p.md.Parser().Parse(gtext.NewReader(content), parser.WithContext(pctx))

	doc := richtext.NewDocument(richtext.FormatMarkdown)
	applyMetadata(doc, meta.Get(pctx))

	b := &builder{source: content}
	b.walkBlocks(root, nil)
	doc.Content = b.runs

	p.logger.Debug("markdown parsed",
		zap.String("document_id", doc.ID),
		zap.Int("source_bytes", len(content)),
		zap.Int("runs", len(doc.Content)))
	return doc, nil
}

// expandSourceEmoji 解析前的表情预展开（分词器的第二个调用方，回退类型为 Markup）
func (p *Parser) expandSourceEmoji(content []byte) []byte {
	tok := tokenizer.New(tokenizer.TypeMarkup, tokenizer.EmojiPattern())
	var sb strings.Builder
	for _, token := range tok.Tokenize(string(content)) {
		if token.Type == tokenizer.TypeEmoji {
			if url, ok := p.sourceEmoji.Lookup(token.Captured); ok {
				fmt.Fprintf(&sb, "![%s](%s)", token.Captured, url)
				continue
			}
		}
		sb.WriteString(token.Content)
	}
	return []byte(sb.String())
}

// applyMetadata 把前置元数据写入文档
func applyMetadata(doc *richtext.Document, fields map[string]interface{}) {
	if len(fields) == 0 {
		return
	}
	doc.Metadata.CustomFields = make(map[string]interface{})
	for key, value := range fields {
		switch strings.ToLower(key) {
		case "title":
			doc.Metadata.Title = fmt.Sprintf("%v", value)
		case "author":
			doc.Metadata.Author = fmt.Sprintf("%v", value)
		case "language", "lang":
			if tag, err := language.Parse(fmt.Sprintf("%v", value)); err == nil {
				doc.Metadata.Language = tag
			}
		default:
			doc.Metadata.CustomFields[key] = value
		}
	}
}

// builder 把 AST 展平为运行序列。意图栈最外层在前，
// 产出运行时反转为"最内层在前"的层级。
type builder struct {
	source []byte
	runs   richtext.Text
	stack  []richtext.IntentComponent
	nextID int
}

// push 压入一层意图并返回弹出函数，Identity 单调递增以区分相邻同种类块
func (b *builder) push(kind richtext.IntentKind) func() {
	b.nextID++
	b.stack = append(b.stack, richtext.IntentComponent{Kind: kind, Identity: b.nextID})
	return func() {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// intent 返回当前意图层级的最内层在前副本
func (b *builder) intent() richtext.Intent {
	if len(b.stack) == 0 {
		return nil
	}
	intent := make(richtext.Intent, len(b.stack))
	for i, c := range b.stack {
		intent[len(b.stack)-1-i] = c
	}
	return intent
}

// emit 产出一个运行，附加当前意图层级
func (b *builder) emit(content string, attrs richtext.AttributeSet) {
	if content == "" {
		return
	}
	merged := attrs.Clone()
	if merged == nil {
		merged = make(richtext.AttributeSet, 1)
	}
	if intent := b.intent(); intent != nil {
		merged[richtext.AttrIntent] = intent
	}
	b.runs = append(b.runs, richtext.Run{Content: content, Attributes: merged})
}

// walkBlocks 遍历块级子节点
func (b *builder) walkBlocks(n ast.Node, attrs richtext.AttributeSet) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading:
			pop := b.push(richtext.IntentHeading)
			b.walkInline(node, attrs.Merge(richtext.AttributeSet{richtext.AttrHeading: node.Level}))
			pop()
		case *ast.Paragraph:
			pop := b.push(richtext.IntentParagraph)
			b.walkInline(node, attrs)
			pop()
		case *ast.TextBlock:
			// 紧凑列表项中的文本块等价于段落
			pop := b.push(richtext.IntentParagraph)
			b.walkInline(node, attrs)
			pop()
		case *ast.Blockquote:
			pop := b.push(richtext.IntentBlockquote)
			b.walkBlocks(node, attrs)
			pop()
		case *ast.List:
			kind := richtext.IntentList
			if node.IsOrdered() {
				kind = richtext.IntentOrderedList
			}
			pop := b.push(kind)
			b.walkBlocks(node, attrs)
			pop()
		case *ast.ListItem:
			pop := b.push(richtext.IntentListItem)
			b.walkBlocks(node, attrs)
			pop()
		case *ast.FencedCodeBlock:
			lang := ""
			if node.Info != nil {
				lang = string(node.Language(b.source))
			}
			pop := b.push(richtext.IntentCodeBlock)
			b.emit(b.lines(node), attrs.Merge(richtext.AttributeSet{richtext.AttrCodeBlock: lang}))
			pop()
		case *ast.CodeBlock:
			pop := b.push(richtext.IntentCodeBlock)
			b.emit(b.lines(node), attrs.Merge(richtext.AttributeSet{richtext.AttrCodeBlock: ""}))
			pop()
		case *ast.HTMLBlock:
			pop := b.push(richtext.IntentParagraph)
			b.emit(b.lines(node), attrs.Merge(richtext.AttributeSet{richtext.AttrRawHTML: true}))
			pop()
		case *ast.ThematicBreak:
			// 分隔线没有文本内容，不产出运行
		case *east.Table:
			pop := b.push(richtext.IntentTable)
			b.walkBlocks(node, attrs)
			pop()
		case *east.TableHeader:
			pop := b.push(richtext.IntentTableRow)
			b.walkTableCells(node, attrs)
			pop()
		case *east.TableRow:
			pop := b.push(richtext.IntentTableRow)
			b.walkTableCells(node, attrs)
			pop()
		default:
			b.walkForeignBlock(c, attrs)
		}
	}
}

// walkTableCells 遍历表格行中的单元格
func (b *builder) walkTableCells(row ast.Node, attrs richtext.AttributeSet) {
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if cell, ok := c.(*east.TableCell); ok {
			pop := b.push(richtext.IntentTableCell)
			b.walkInline(cell, attrs)
			pop()
		}
	}
}

// walkForeignBlock 处理扩展注册的块级节点（目前只有 goldmark-mathjax 的公式块）
func (b *builder) walkForeignBlock(n ast.Node, attrs richtext.AttributeSet) {
	if n.Kind().String() == "MathBlock" {
		pop := b.push(richtext.IntentParagraph)
		latex := strings.TrimSuffix(b.lines(n), "\n")
		b.emit(richtext.AttachmentCharacter, attrs.Merge(richtext.AttributeSet{
			richtext.AttrAttachment: richtext.Attachment{LaTeX: latex, Block: true},
		}))
		pop()
		return
	}
	if n.Type() == ast.TypeBlock {
		b.walkBlocks(n, attrs)
	}
}

// walkInline 遍历行内子节点，attrs 随嵌套累积
func (b *builder) walkInline(n ast.Node, attrs richtext.AttributeSet) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			content := string(node.Segment.Value(b.source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				// 换行是普通字符，原样保留在运行内容中
				content += "\n"
			}
			b.emit(content, attrs)
		case *ast.String:
			b.emit(string(node.Value), attrs)
		case *ast.CodeSpan:
			b.emit(b.childText(node), attrs.Merge(richtext.AttributeSet{richtext.AttrInlineCode: true}))
		case *ast.Emphasis:
			key := richtext.AttrItalic
			if node.Level >= 2 {
				key = richtext.AttrBold
			}
			b.walkInline(node, attrs.Merge(richtext.AttributeSet{key: true}))
		case *east.Strikethrough:
			b.walkInline(node, attrs.Merge(richtext.AttributeSet{richtext.AttrStrikethrough: true}))
		case *ast.Link:
			b.walkInline(node, attrs.Merge(richtext.AttributeSet{richtext.AttrLink: string(node.Destination)}))
		case *ast.AutoLink:
			url := string(node.URL(b.source))
			b.emit(url, attrs.Merge(richtext.AttributeSet{richtext.AttrLink: url}))
		case *ast.Image:
			b.walkInline(node, attrs.Merge(richtext.AttributeSet{richtext.AttrImage: string(node.Destination)}))
		case *ast.RawHTML:
			b.emit(b.segmentsText(node.Segments), attrs.Merge(richtext.AttributeSet{richtext.AttrRawHTML: true}))
		case *east.TaskCheckBox:
			if node.IsChecked {
				b.emit("[x] ", attrs)
			} else {
				b.emit("[ ] ", attrs)
			}
		default:
			b.walkForeignInline(c, attrs)
		}
	}
}

// walkForeignInline 处理扩展注册的行内节点（goldmark-mathjax 的行内公式）
func (b *builder) walkForeignInline(n ast.Node, attrs richtext.AttributeSet) {
	if n.Kind().String() == "InlineMath" {
		b.emit(richtext.AttachmentCharacter, attrs.Merge(richtext.AttributeSet{
			richtext.AttrAttachment: richtext.Attachment{LaTeX: b.childText(n), Block: false},
		}))
		return
	}
	if n.HasChildren() {
		b.walkInline(n, attrs)
	}
}

// lines 拼接块级节点的所有源文本行
func (b *builder) lines(n ast.Node) string {
	var sb strings.Builder
	segments := n.Lines()
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		sb.Write(seg.Value(b.source))
	}
	return sb.String()
}

// segmentsText 拼接片段集合的源文本
func (b *builder) segmentsText(segments *gtext.Segments) string {
	var sb strings.Builder
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		sb.Write(seg.Value(b.source))
	}
	return sb.String()
}

// childText 拼接节点的全部文本子节点
func (b *builder) childText(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(b.source))
		}
	}
	return sb.String()
}

// 编译期断言：Parser 满足 formats.Parser 接口
var _ formats.Parser = (*Parser)(nil)
