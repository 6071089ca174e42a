package html

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/nerdneilsfield/go-textual/internal/formats"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
)

// Parser HTML 解析器：用 goquery 读取文档，把块级元素
// 映射为带结构意图层级的运行序列
type Parser struct {
	logger *zap.Logger
}

// NewParser 创建 HTML 解析器
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Format 返回解析器支持的格式
func (p *Parser) Format() richtext.Format {
	return richtext.FormatHTML
}

// Parse 解析 HTML 内容为富文本文档
func (p *Parser) Parse(ctx context.Context, input io.Reader) (*richtext.Document, error) {
	gq, err := goquery.NewDocumentFromReader(input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc := richtext.NewDocument(richtext.FormatHTML)
	doc.Metadata.Title = strings.TrimSpace(gq.Find("head title").First().Text())
	if lang, ok := gq.Find("html").Attr("lang"); ok {
		if tag, err := language.Parse(lang); err == nil {
			doc.Metadata.Language = tag
		}
	}

	b := &builder{}
	body := gq.Find("body")
	if len(body.Nodes) > 0 {
		b.walkBlocks(body.Nodes[0], nil)
	}
	doc.Content = b.runs

	p.logger.Debug("html parsed",
		zap.String("document_id", doc.ID),
		zap.String("title", doc.Metadata.Title),
		zap.Int("runs", len(doc.Content)))
	return doc, nil
}

// builder HTML 节点遍历器，与 Markdown 解析器相同的意图栈约定
type builder struct {
	runs   richtext.Text
	stack  []richtext.IntentComponent
	nextID int
}

func (b *builder) push(kind richtext.IntentKind) func() {
	b.nextID++
	b.stack = append(b.stack, richtext.IntentComponent{Kind: kind, Identity: b.nextID})
	return func() {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

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

// walkBlocks 遍历块级子元素
func (b *builder) walkBlocks(n *html.Node, attrs richtext.AttributeSet) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(c.Data[1] - '0')
			pop := b.push(richtext.IntentHeading)
			b.walkInline(c, attrs.Merge(richtext.AttributeSet{richtext.AttrHeading: level}))
			pop()
		case "p":
			pop := b.push(richtext.IntentParagraph)
			b.walkInline(c, attrs)
			pop()
		case "blockquote":
			pop := b.push(richtext.IntentBlockquote)
			b.walkBlocks(c, attrs)
			pop()
		case "ul":
			pop := b.push(richtext.IntentList)
			b.walkBlocks(c, attrs)
			pop()
		case "ol":
			pop := b.push(richtext.IntentOrderedList)
			b.walkBlocks(c, attrs)
			pop()
		case "li":
			pop := b.push(richtext.IntentListItem)
			b.walkListItem(c, attrs)
			pop()
		case "pre":
			pop := b.push(richtext.IntentCodeBlock)
			b.emit(nodeText(c), attrs.Merge(richtext.AttributeSet{richtext.AttrCodeBlock: codeLanguage(c)}))
			pop()
		case "table":
			pop := b.push(richtext.IntentTable)
			b.walkTable(c, attrs)
			pop()
		case "div", "section", "article", "main", "body":
			b.walkBlocks(c, attrs)
		case "hr", "script", "style":
			// 分隔线没有文本内容；脚本与样式不属于文档内容
		default:
			// 其余元素按行内内容处理，包装成段落
			pop := b.push(richtext.IntentParagraph)
			b.walkInline(c, attrs)
			pop()
		}
	}
}

// walkListItem 列表项内容：纯行内内容包装成段落，块级内容递归
func (b *builder) walkListItem(li *html.Node, attrs richtext.AttributeSet) {
	if hasBlockChild(li) {
		b.walkBlocks(li, attrs)
		return
	}
	pop := b.push(richtext.IntentParagraph)
	b.walkInline(li, attrs)
	pop()
}

// walkTable 遍历表格结构，thead/tbody 透明下降
func (b *builder) walkTable(table *html.Node, attrs richtext.AttributeSet) {
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			b.walkTable(c, attrs)
		case "tr":
			pop := b.push(richtext.IntentTableRow)
			for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
					cellPop := b.push(richtext.IntentTableCell)
					b.walkInline(cell, attrs)
					cellPop()
				}
			}
			pop()
		}
	}
}

// walkInline 遍历行内内容，attrs 随嵌套累积
func (b *builder) walkInline(n *html.Node, attrs richtext.AttributeSet) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.emit(collapseWhitespace(c.Data), attrs)
		case html.ElementNode:
			switch c.Data {
			case "strong", "b":
				b.walkInline(c, attrs.Merge(richtext.AttributeSet{richtext.AttrBold: true}))
			case "em", "i":
				b.walkInline(c, attrs.Merge(richtext.AttributeSet{richtext.AttrItalic: true}))
			case "del", "s", "strike":
				b.walkInline(c, attrs.Merge(richtext.AttributeSet{richtext.AttrStrikethrough: true}))
			case "code":
				b.emit(nodeText(c), attrs.Merge(richtext.AttributeSet{richtext.AttrInlineCode: true}))
			case "a":
				b.walkInline(c, attrs.Merge(richtext.AttributeSet{richtext.AttrLink: attrValue(c, "href")}))
			case "img":
				alt := attrValue(c, "alt")
				if alt == "" {
					alt = attrValue(c, "src")
				}
				b.emit(alt, attrs.Merge(richtext.AttributeSet{richtext.AttrImage: attrValue(c, "src")}))
			case "br":
				b.emit("\n", attrs)
			default:
				b.walkInline(c, attrs)
			}
		}
	}
}

// blockTags 块级元素标签
var blockTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "ul": true, "ol": true,
	"pre": true, "table": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
	}
	return false
}

// codeLanguage 从 <pre><code class="language-xx"> 提取语言
func codeLanguage(pre *html.Node) string {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			for _, class := range strings.Fields(attrValue(c, "class")) {
				if lang, ok := strings.CutPrefix(class, "language-"); ok {
					return lang
				}
			}
		}
	}
	return ""
}

// nodeText 拼接节点的全部文本内容
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// attrValue 读取元素属性值
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// collapseWhitespace 把 HTML 文本节点中的连续空白折叠为单个空格，
// 保留与相邻行内元素之间的边界空格
func collapseWhitespace(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		collapsed = " " + collapsed
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		collapsed += " "
	}
	return collapsed
}

var _ formats.Parser = (*Parser)(nil)
