package html

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-textual/pkg/richtext"
)

// render 渲染文档并返回输出文本
func render(t *testing.T, doc *richtext.Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(context.Background(), doc, &buf))
	return buf.String()
}

// paragraphRun 构造一个带段落意图的运行
func paragraphRun(content string, identity int, extra richtext.AttributeSet) richtext.Run {
	attrs := richtext.AttributeSet{
		richtext.AttrIntent: richtext.Intent{{Kind: richtext.IntentParagraph, Identity: identity}},
	}
	for k, v := range extra {
		attrs[k] = v
	}
	return richtext.Run{Content: content, Attributes: attrs}
}

// TestRenderRoundTrip 测试解析后再渲染保持结构
func TestRenderRoundTrip(t *testing.T) {
	source := `<body><h2>Head</h2><p><strong>b</strong> and <em>i</em></p><ul><li>one</li><li>two</li></ul></body>`
	doc := parse(t, source)
	output := render(t, doc)

	assert.Contains(t, output, "<h2>Head</h2>")
	assert.Contains(t, output, "<strong>b</strong>")
	assert.Contains(t, output, "<em>i</em>")
	assert.Contains(t, output, "<ul>")
	assert.Contains(t, output, "<li><p>one</p>\n</li>")
	assert.Contains(t, output, "<li><p>two</p>\n</li>")
}

// TestRenderEscaping 测试文本内容转义
func TestRenderEscaping(t *testing.T) {
	doc := richtext.NewDocument(richtext.FormatHTML)
	doc.Content = richtext.Text{paragraphRun("a < b & c", 1, nil)}
	output := render(t, doc)

	assert.Contains(t, output, "a &lt; b &amp; c")
}

// TestRenderRawHTMLPassthrough 测试原始 HTML 不转义
func TestRenderRawHTMLPassthrough(t *testing.T) {
	doc := richtext.NewDocument(richtext.FormatHTML)
	doc.Content = richtext.Text{paragraphRun("<span data-x>raw</span>", 1, richtext.AttributeSet{
		richtext.AttrRawHTML: true,
	})}
	output := render(t, doc)

	assert.Contains(t, output, "<span data-x>raw</span>")
}

// TestRenderAttachment 测试公式附件渲染为带类名的 span
func TestRenderAttachment(t *testing.T) {
	doc := richtext.NewDocument(richtext.FormatHTML)
	doc.Content = richtext.Text{
		paragraphRun(richtext.AttachmentCharacter, 1, richtext.AttributeSet{
			richtext.AttrAttachment: richtext.Attachment{LaTeX: "x<y", Block: false},
		}),
		paragraphRun(richtext.AttachmentCharacter, 2, richtext.AttributeSet{
			richtext.AttrAttachment: richtext.Attachment{LaTeX: "\\sum_i x_i", Block: true},
		}),
	}
	output := render(t, doc)

	assert.Contains(t, output, `<span class="math-inline">x&lt;y</span>`)
	assert.Contains(t, output, `<span class="math-block">\sum_i x_i</span>`)
}

// TestRenderEmoji 测试表情运行渲染为图片
func TestRenderEmoji(t *testing.T) {
	doc := richtext.NewDocument(richtext.FormatHTML)
	doc.Content = richtext.Text{paragraphRun(":smile:", 1, richtext.AttributeSet{
		richtext.AttrEmoji: "https://e.example/smile.png",
	})}
	output := render(t, doc)

	assert.Contains(t, output, `<img class="emoji" alt=":smile:" src="https://e.example/smile.png">`)
}

// TestRenderCodeBlock 测试代码块转义与语言类名
func TestRenderCodeBlock(t *testing.T) {
	doc := richtext.NewDocument(richtext.FormatHTML)
	doc.Content = richtext.Text{{
		Content: "if a < b {\n}\n",
		Attributes: richtext.AttributeSet{
			richtext.AttrIntent:    richtext.Intent{{Kind: richtext.IntentCodeBlock, Identity: 1}},
			richtext.AttrCodeBlock: "go",
		},
	}}
	output := render(t, doc)

	assert.Contains(t, output, `<pre><code class="language-go">`)
	assert.Contains(t, output, "if a &lt; b {")
}

// TestRenderTable 测试表格渲染
func TestRenderTable(t *testing.T) {
	doc := parse(t, `<body><table><tr><td>c</td><td>d</td></tr></table></body>`)
	output := render(t, doc)

	assert.Contains(t, output, "<table>")
	assert.Contains(t, output, "<tr><td>c</td><td>d</td></tr>")
}
