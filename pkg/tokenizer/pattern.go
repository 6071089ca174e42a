package tokenizer

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Pattern 锚定匹配模式：仅在当前扫描游标处尝试前缀匹配，
// 第一捕获组为可替换的内部内容。
type Pattern struct {
	typ Type
	re  *regexp2.Regexp
}

// NewPattern 编译锚定模式。表达式非法属于配置错误，在构造期失败，
// 不会在逐次扫描中出错。使用 regexp2 是因为行内公式需要负向前瞻 (?!\$)，
// 标准库 regexp 不支持。
func NewPattern(typ Type, expr string) (Pattern, error) {
	re, err := regexp2.Compile(`\A(?:`+expr+`)`, regexp2.None)
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return Pattern{typ: typ, re: re}, nil
}

// MustPattern 编译锚定模式，失败时 panic，仅用于内置模式
func MustPattern(typ Type, expr string) Pattern {
	p, err := NewPattern(typ, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Type 返回模式产生的单元类型
func (p Pattern) Type() Type {
	return p.typ
}

// match 在 s 起始处尝试匹配，返回完整匹配文本和第一捕获组内容
func (p Pattern) match(s string) (content, captured string, ok bool) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return "", "", false
	}
	content = m.String()
	if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
		captured = g.Captures[len(g.Captures)-1].String()
	}
	return content, captured, true
}

// EmojiPattern 表情短代码模式：冒号包围的一个或多个 [A-Za-z0-9_+-]，
// 捕获组不含冒号。空短代码（::）不匹配。
func EmojiPattern() Pattern {
	return MustPattern(TypeEmoji, `:([A-Za-z0-9_+-]+):`)
}

// MathBlockPattern 块级公式模式：$$...$$，非贪婪，可跨换行，
// 捕获组为定界符之间的全部内容（含换行）。
// 注册时必须排在行内公式之前，避免 $$...$$ 被误认为两个相邻的行内定界符。
func MathBlockPattern() Pattern {
	return MustPattern(TypeMathBlock, `(?s)\$\$(.+?)\$\$`)
}

// MathInlinePattern 行内公式模式：$ 开头（后面不能紧跟另一个 $），
// 内容为一个或多个转义 \$ 或非 $ 非换行字符，$ 结尾。
// 捕获组不含外层定界符，但保留未解析的 \$ 转义序列。
func MathInlinePattern() Pattern {
	return MustPattern(TypeMathInline, `\$(?!\$)((?:\\\$|[^$\n])+)\$`)
}
