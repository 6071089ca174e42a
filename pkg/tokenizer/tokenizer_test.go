package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeWithoutPatterns(t *testing.T) {
	// 无模式时整个输入作为单个回退单元返回
	t.Run("Text Fallback", func(t *testing.T) {
		tok := New(TypeText)
		tokens := tok.Tokenize("Hello world")
		require.Len(t, tokens, 1)
		assert.Equal(t, TypeText, tokens[0].Type)
		assert.Equal(t, "Hello world", tokens[0].Content)
	})

	t.Run("Markup Fallback", func(t *testing.T) {
		tok := New(TypeMarkup)
		tokens := tok.Tokenize("# Title\n\nbody")
		require.Len(t, tokens, 1)
		assert.Equal(t, TypeMarkup, tokens[0].Type)
		assert.Equal(t, "# Title\n\nbody", tokens[0].Content)
	})

	t.Run("Empty Input", func(t *testing.T) {
		tok := New(TypeText)
		tokens := tok.Tokenize("")
		require.Len(t, tokens, 1)
		assert.Equal(t, "", tokens[0].Content)
	})
}

func TestTokenizeEmoji(t *testing.T) {
	tok := New(TypeText, EmojiPattern())

	t.Run("Shortcodes Between Text", func(t *testing.T) {
		tokens := tok.Tokenize("Hello :smile: and :heart: world")
		require.Len(t, tokens, 5)

		assert.Equal(t, Token{Type: TypeText, Content: "Hello "}, tokens[0])
		assert.Equal(t, Token{Type: TypeEmoji, Content: ":smile:", Captured: "smile"}, tokens[1])
		assert.Equal(t, Token{Type: TypeText, Content: " and "}, tokens[2])
		assert.Equal(t, Token{Type: TypeEmoji, Content: ":heart:", Captured: "heart"}, tokens[3])
		assert.Equal(t, Token{Type: TypeText, Content: " world"}, tokens[4])
	})

	t.Run("Adjacent Shortcodes", func(t *testing.T) {
		// 两个非文本单元可以直接相邻，中间没有文本单元
		tokens := tok.Tokenize("Hello :smile::heart: world")
		require.Len(t, tokens, 4)
		assert.Equal(t, TypeEmoji, tokens[1].Type)
		assert.Equal(t, "smile", tokens[1].Captured)
		assert.Equal(t, TypeEmoji, tokens[2].Type)
		assert.Equal(t, "heart", tokens[2].Captured)
	})

	t.Run("Unterminated Shortcode", func(t *testing.T) {
		// 未终结的短代码整体退化为纯文本
		tokens := tok.Tokenize("Hello :smile")
		require.Len(t, tokens, 1)
		assert.Equal(t, Token{Type: TypeText, Content: "Hello :smile"}, tokens[0])
	})

	t.Run("Empty Capture Rejected", func(t *testing.T) {
		// 空捕获（::）不匹配，退化为纯文本
		tokens := tok.Tokenize("Hello :: world")
		require.Len(t, tokens, 1)
		assert.Equal(t, Token{Type: TypeText, Content: "Hello :: world"}, tokens[0])
	})

	t.Run("Shortcode Alphabet", func(t *testing.T) {
		tokens := tok.Tokenize(":+1: :thumbs-up_2:")
		require.Len(t, tokens, 3)
		assert.Equal(t, "+1", tokens[0].Captured)
		assert.Equal(t, "thumbs-up_2", tokens[2].Captured)
	})
}

func TestTokenizeMath(t *testing.T) {
	tok := New(TypeText, MathBlockPattern(), MathInlinePattern())

	t.Run("Escaped Delimiter Inside Inline Math", func(t *testing.T) {
		tokens := tok.Tokenize(`Cost: $a\$b$`)
		require.Len(t, tokens, 2)
		assert.Equal(t, Token{Type: TypeText, Content: "Cost: "}, tokens[0])
		// 转义序列 \$ 原样保留在捕获内容中，不做反转义
		assert.Equal(t, Token{Type: TypeMathInline, Content: `$a\$b$`, Captured: `a\$b`}, tokens[1])
	})

	t.Run("Block Wins Over Inline", func(t *testing.T) {
		// 块级模式排在前面，$$...$$ 不会被误认为两个行内定界符
		tokens := tok.Tokenize("$$x+1$$")
		require.Len(t, tokens, 1)
		assert.Equal(t, Token{Type: TypeMathBlock, Content: "$$x+1$$", Captured: "x+1"}, tokens[0])
	})

	t.Run("Block Math Spans Newlines", func(t *testing.T) {
		input := "$$\n\\int_0^1 x\\,dx\n$$"
		tokens := tok.Tokenize(input)
		require.Len(t, tokens, 1)
		assert.Equal(t, TypeMathBlock, tokens[0].Type)
		assert.Equal(t, "\n\\int_0^1 x\\,dx\n", tokens[0].Captured)
	})

	t.Run("Block Math Is Non Greedy", func(t *testing.T) {
		tokens := tok.Tokenize("$$a$$ and $$b$$")
		require.Len(t, tokens, 3)
		assert.Equal(t, "a", tokens[0].Captured)
		assert.Equal(t, Token{Type: TypeText, Content: " and "}, tokens[1])
		assert.Equal(t, "b", tokens[2].Captured)
	})

	t.Run("Inline Math Does Not Cross Newline", func(t *testing.T) {
		tokens := tok.Tokenize("a $x\ny$ b")
		require.Len(t, tokens, 1)
		assert.Equal(t, TypeText, tokens[0].Type)
	})

	t.Run("Unterminated Block Math", func(t *testing.T) {
		tokens := tok.Tokenize("$$x+1")
		require.Len(t, tokens, 1)
		assert.Equal(t, Token{Type: TypeText, Content: "$$x+1"}, tokens[0])
	})
}

func TestTokenizePrecedence(t *testing.T) {
	// 同一位置两个模式都能匹配时，列表中靠前的获胜
	first := MustPattern(TypeEmoji, `:([a-z]+):`)
	second := MustPattern(TypeMathInline, `:([a-z]+):`)

	tokens := New(TypeText, first, second).Tokenize(":abc:")
	require.Len(t, tokens, 1)
	assert.Equal(t, TypeEmoji, tokens[0].Type)

	tokens = New(TypeText, second, first).Tokenize(":abc:")
	require.Len(t, tokens, 1)
	assert.Equal(t, TypeMathInline, tokens[0].Type)
}

func TestTokenizeLossless(t *testing.T) {
	// 无损性：按顺序拼接所有单元的 Content 恰好还原输入
	inputs := []string{
		"",
		"plain text without any pattern",
		"Hello :smile: and :heart: world",
		"Hello :smile::heart: world",
		"::: not a shortcode :::",
		"$$block$$ then $inline$ then $broken",
		"newlines\nare\npreserved :smile:\nverbatim",
		"混合 :smile: 中文 $x$ 内容",
		`escaped $a\$b$ tail`,
	}
	tok := New(TypeText, MathBlockPattern(), MathInlinePattern(), EmojiPattern())
	for _, input := range inputs {
		tokens := tok.Tokenize(input)
		var rebuilt string
		for _, token := range tokens {
			rebuilt += token.Content
		}
		assert.Equal(t, input, rebuilt, "input %q must reassemble losslessly", input)
	}
}

func TestTokenizePlainRunsAreMaximal(t *testing.T) {
	// 连续落空的字符合并进同一个纯文本单元
	tok := New(TypeText, EmojiPattern())
	tokens := tok.Tokenize("a : b : c")
	require.Len(t, tokens, 1)
	assert.Equal(t, "a : b : c", tokens[0].Content)

	// 纯文本单元与随后的非文本单元绝不合并
	tokens = tok.Tokenize("x:ok:")
	require.Len(t, tokens, 2)
	assert.Equal(t, Token{Type: TypeText, Content: "x"}, tokens[0])
	assert.Equal(t, TypeEmoji, tokens[1].Type)
}
