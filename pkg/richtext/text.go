package richtext

import "strings"

// Run 富文本运行：一段共享同一属性集合的连续文本
type Run struct {
	Content    string
	Attributes AttributeSet
}

// IsPreformatted 判断运行是否为预格式化内容（行内代码、代码块、原始 HTML）。
// 预格式化运行被模式展开硬性排除。
func (r Run) IsPreformatted() bool {
	return r.Attributes.Has(AttrInlineCode) ||
		r.Attributes.Has(AttrCodeBlock) ||
		r.Attributes.Has(AttrRawHTML)
}

// Intent 返回运行的结构意图层级，未标注时为 nil
func (r Run) Intent() Intent {
	if intent, ok := r.Attributes[AttrIntent].(Intent); ok {
		return intent
	}
	return nil
}

// Text 富文本文档：有序、连续、不重叠的运行序列
type Text []Run

// String 拼接所有运行的内容
func (t Text) String() string {
	var sb strings.Builder
	for _, run := range t {
		sb.WriteString(run.Content)
	}
	return sb.String()
}

// Append 追加一个运行
func (t Text) Append(content string, attrs AttributeSet) Text {
	return append(t, Run{Content: content, Attributes: attrs})
}
