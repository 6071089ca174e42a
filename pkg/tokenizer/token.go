package tokenizer

// Type 词法单元类型
type Type string

const (
	// TypeText 已解析文本的回退类型
	TypeText Type = "text"
	// TypeMarkup 原始标记文本的回退类型
	TypeMarkup Type = "markup"
	// TypeEmoji 表情短代码 :name:
	TypeEmoji Type = "emoji"
	// TypeMathBlock 块级公式 $$...$$
	TypeMathBlock Type = "mathBlock"
	// TypeMathInline 行内公式 $...$
	TypeMathInline Type = "mathInline"
)

// IsFallback 判断是否为回退类型（纯文本），回退类型永远不会被替换规则认领
func (t Type) IsFallback() bool {
	return t == TypeText || t == TypeMarkup
}

// Token 词法单元。按顺序拼接所有 Token 的 Content 可无损还原输入。
type Token struct {
	// Type 产生该单元的模式类型，或回退类型
	Type Type
	// Content 完整匹配文本（含定界符）
	Content string
	// Captured 捕获的内部内容（不含定界符），仅非回退单元有意义
	Captured string
}
