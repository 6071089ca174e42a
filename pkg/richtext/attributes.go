package richtext

// 属性键常量，与上游解析器的属性词汇表保持一致
const (
	// AttrBold 粗体
	AttrBold = "bold"
	// AttrItalic 斜体
	AttrItalic = "italic"
	// AttrStrikethrough 删除线
	AttrStrikethrough = "strikethrough"
	// AttrLink 链接目标地址
	AttrLink = "link"
	// AttrImage 图片目标地址
	AttrImage = "image"
	// AttrInlineCode 行内代码（预格式化）
	AttrInlineCode = "inlineCode"
	// AttrCodeBlock 代码块，值为代码语言（预格式化）
	AttrCodeBlock = "codeBlock"
	// AttrRawHTML 原始 HTML 片段（预格式化）
	AttrRawHTML = "rawHTML"
	// AttrHeading 标题级别（1-6）
	AttrHeading = "heading"
	// AttrIntent 结构意图层级，值为 Intent
	AttrIntent = "intent"
	// AttrEmoji 表情符号解析出的资源地址
	AttrEmoji = "emoji"
	// AttrAttachment 附件占位符，值为 Attachment
	AttrAttachment = "attachment"
)

// AttachmentCharacter 附件占位字符（对象替换字符 U+FFFC）
const AttachmentCharacter = "\uFFFC"

// Attachment 数学公式附件占位信息
type Attachment struct {
	// LaTeX 公式内容，行内公式中的 \$ 转义保持原样，由下游消费者决定是否反转义
	LaTeX string
	// Block 是否为块级公式
	Block bool
}

// AttributeSet 属性集合，键存在与否本身具有语义
type AttributeSet map[string]interface{}

// Has 检查属性是否存在
func (a AttributeSet) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Clone 复制属性集合
func (a AttributeSet) Clone() AttributeSet {
	if a == nil {
		return nil
	}
	clone := make(AttributeSet, len(a))
	for k, v := range a {
		clone[k] = v
	}
	return clone
}

// Merge 返回合并后的新属性集合，extra 中的键覆盖原有键
func (a AttributeSet) Merge(extra AttributeSet) AttributeSet {
	merged := a.Clone()
	if merged == nil {
		merged = make(AttributeSet, len(extra))
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
