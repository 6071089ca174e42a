package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-textual/pkg/emoji"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
	"github.com/nerdneilsfield/go-textual/pkg/tokenizer"
)

func testCatalog() *emoji.Catalog {
	return emoji.NewCatalog([]emoji.Record{
		{Shortcode: "smile", URL: "https://cdn.example.com/smile.png"},
		{Shortcode: "heart", URL: "https://cdn.example.com/heart.png"},
	})
}

func TestExpandEmptyRules(t *testing.T) {
	// 规则为空时恒等返回
	doc := richtext.Text{{Content: "Hello :smile:", Attributes: richtext.AttributeSet{richtext.AttrBold: true}}}
	out := NewProcessor(nil, nil).Expand(doc)
	assert.Equal(t, doc, out)
}

func TestExpandEmojiRun(t *testing.T) {
	attrs := richtext.AttributeSet{richtext.AttrItalic: true}
	doc := richtext.Text{{Content: "Hello :smile: world", Attributes: attrs}}

	processor := NewProcessor([]Rule{EmojiRule(testCatalog())}, nil)
	out := processor.Expand(doc)
	require.Len(t, out, 3)

	// 前后文本保留原属性
	assert.Equal(t, "Hello ", out[0].Content)
	assert.True(t, out[0].Attributes.Has(richtext.AttrItalic))
	assert.Equal(t, " world", out[2].Content)
	assert.True(t, out[2].Attributes.Has(richtext.AttrItalic))

	// 替换运行携带解析出的资源属性，且无关属性存活
	assert.Equal(t, ":smile:", out[1].Content)
	assert.Equal(t, "https://cdn.example.com/smile.png", out[1].Attributes[richtext.AttrEmoji])
	assert.True(t, out[1].Attributes.Has(richtext.AttrItalic))
}

func TestExpandUnknownShortcodeDeclines(t *testing.T) {
	attrs := richtext.AttributeSet{richtext.AttrBold: true}
	doc := richtext.Text{{Content: "ok :unknown: end", Attributes: attrs}}

	out := NewProcessor([]Rule{EmojiRule(testCatalog())}, nil).Expand(doc)

	// 未知短代码放弃替换：原文与原属性保留，不报错
	var rebuilt string
	for _, run := range out {
		rebuilt += run.Content
		assert.True(t, run.Attributes.Has(richtext.AttrBold))
		assert.False(t, run.Attributes.Has(richtext.AttrEmoji))
	}
	assert.Equal(t, "ok :unknown: end", rebuilt)
}

func TestExpandCaseInsensitiveLookup(t *testing.T) {
	doc := richtext.Text{{Content: ":SMILE:"}}
	out := NewProcessor([]Rule{EmojiRule(testCatalog())}, nil).Expand(doc)
	require.Len(t, out, 1)
	assert.Equal(t, "https://cdn.example.com/smile.png", out[0].Attributes[richtext.AttrEmoji])
}

func TestExpandPreformattedExclusion(t *testing.T) {
	tests := []struct {
		name  string
		attrs richtext.AttributeSet
	}{
		{"Inline Code", richtext.AttributeSet{richtext.AttrInlineCode: true}},
		{"Code Block", richtext.AttributeSet{richtext.AttrCodeBlock: "sh"}},
		{"Raw HTML", richtext.AttributeSet{richtext.AttrRawHTML: true}},
	}
	processor := NewProcessor([]Rule{EmojiRule(testCatalog()), MathRule()}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 预格式化运行绝不参与模式展开
			doc := richtext.Text{{Content: "echo :smile: $x$", Attributes: tt.attrs}}
			out := processor.Expand(doc)
			require.Len(t, out, 1)
			assert.Equal(t, "echo :smile: $x$", out[0].Content)
			assert.Equal(t, tt.attrs, out[0].Attributes)
		})
	}
}

func TestExpandNoMatchKeepsAttributeIdentity(t *testing.T) {
	attrs := richtext.AttributeSet{richtext.AttrBold: true}
	doc := richtext.Text{{Content: "no patterns here", Attributes: attrs}}

	out := NewProcessor([]Rule{EmojiRule(testCatalog())}, nil).Expand(doc)
	require.Len(t, out, 1)

	// 整段未命中：属性集合保持引用同一性，而不仅是等价
	out[0].Attributes["probe"] = 1
	assert.Equal(t, 1, attrs["probe"])
	delete(attrs, "probe")
}

func TestExpandMathRule(t *testing.T) {
	processor := NewProcessor([]Rule{MathRule()}, nil)

	t.Run("Inline Attachment", func(t *testing.T) {
		doc := richtext.Text{{Content: `Cost: $a\$b$`}}
		out := processor.Expand(doc)
		require.Len(t, out, 2)

		assert.Equal(t, "Cost: ", out[0].Content)
		assert.Equal(t, richtext.AttachmentCharacter, out[1].Content)

		attachment, ok := out[1].Attributes[richtext.AttrAttachment].(richtext.Attachment)
		require.True(t, ok)
		// \$ 转义保持原样，由下游决定是否反转义
		assert.Equal(t, `a\$b`, attachment.LaTeX)
		assert.False(t, attachment.Block)
	})

	t.Run("Block Attachment", func(t *testing.T) {
		doc := richtext.Text{{Content: "$$x+1$$"}}
		out := processor.Expand(doc)
		require.Len(t, out, 1)

		attachment, ok := out[0].Attributes[richtext.AttrAttachment].(richtext.Attachment)
		require.True(t, ok)
		assert.Equal(t, "x+1", attachment.LaTeX)
		assert.True(t, attachment.Block)
	})
}

func TestExpandRulePrecedence(t *testing.T) {
	// 两条规则认领同一类型时，规则顺序靠前者获胜
	marker := func(label string) Rule {
		return Rule{
			Patterns: []tokenizer.Pattern{tokenizer.EmojiPattern()},
			Replace: func(tok tokenizer.Token, attrs richtext.AttributeSet) *richtext.Run {
				return &richtext.Run{Content: label, Attributes: attrs}
			},
		}
	}
	out := NewProcessor([]Rule{marker("first"), marker("second")}, nil).Expand(richtext.Text{{Content: ":x:"}})
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Content)
}

func TestExpandDecliningRuleKeepsOriginal(t *testing.T) {
	decline := Rule{
		Patterns: []tokenizer.Pattern{tokenizer.EmojiPattern()},
		Replace: func(tok tokenizer.Token, attrs richtext.AttributeSet) *richtext.Run {
			return nil
		},
	}
	attrs := richtext.AttributeSet{richtext.AttrBold: true}
	out := NewProcessor([]Rule{decline}, nil).Expand(richtext.Text{{Content: "a :x: b", Attributes: attrs}})

	var rebuilt string
	for _, run := range out {
		rebuilt += run.Content
		assert.True(t, run.Attributes.Has(richtext.AttrBold))
	}
	assert.Equal(t, "a :x: b", rebuilt)
}

func TestExpandFallbackNeverDispatched(t *testing.T) {
	// 恶意构造认领回退类型的规则也不会拦截纯文本
	hostile := Rule{
		Patterns: []tokenizer.Pattern{tokenizer.MustPattern(tokenizer.TypeText, `never`)},
		Replace: func(tok tokenizer.Token, attrs richtext.AttributeSet) *richtext.Run {
			return &richtext.Run{Content: "REWRITTEN"}
		},
	}
	out := NewProcessor([]Rule{hostile, EmojiRule(testCatalog())}, nil).Expand(richtext.Text{{Content: "plain :smile: tail"}})
	for _, run := range out {
		assert.NotEqual(t, "REWRITTEN", run.Content)
	}
}

func TestExpandMultipleRunsPreserveOrder(t *testing.T) {
	doc := richtext.Text{
		{Content: "a :smile: ", Attributes: richtext.AttributeSet{richtext.AttrBold: true}},
		{Content: "`:heart:`", Attributes: richtext.AttributeSet{richtext.AttrInlineCode: true}},
		{Content: " $x$"},
	}
	out := NewProcessor([]Rule{EmojiRule(testCatalog()), MathRule()}, nil).Expand(doc)

	// 所有匹配与未匹配内容的相对顺序保持不变
	assert.Equal(t, "a ", out[0].Content)
	assert.Equal(t, ":smile:", out[1].Content)
	assert.Equal(t, " ", out[2].Content)
	assert.Equal(t, "`:heart:`", out[3].Content)
	assert.Equal(t, " ", out[4].Content)
	assert.Equal(t, richtext.AttachmentCharacter, out[5].Content)
	assert.Len(t, out, 6)
}
