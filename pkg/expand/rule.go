package expand

import (
	"github.com/nerdneilsfield/go-textual/pkg/emoji"
	"github.com/nerdneilsfield/go-textual/pkg/richtext"
	"github.com/nerdneilsfield/go-textual/pkg/tokenizer"
)

// ReplaceFunc 替换回调。attrs 为原运行的属性集合；返回 nil 表示放弃替换，
// 原始单元内容连同原属性原样保留。返回的运行属性应由原属性派生
// （通常用 AttributeSet.Merge），以保证无关属性存活。
type ReplaceFunc func(tok tokenizer.Token, attrs richtext.AttributeSet) *richtext.Run

// Rule 替换规则：认领一组模式产生的单元类型，并提供替换回调。
// 规则携带自己的模式，处理器按规则顺序汇总为统一的分词模式表。
type Rule struct {
	Patterns []tokenizer.Pattern
	Replace  ReplaceFunc
}

// claims 判断规则是否认领该单元类型。回退类型永远不被认领，
// 该约束在派发时强制执行，与规则作者无关。
func (r Rule) claims(typ tokenizer.Type) bool {
	if typ.IsFallback() {
		return false
	}
	for _, p := range r.Patterns {
		if p.Type() == typ {
			return true
		}
	}
	return false
}

// EmojiRule 表情替换规则：用目录解析 :name: 短代码，
// 命中时在原属性上合并解析出的资源地址；未知短代码放弃替换。
func EmojiRule(catalog *emoji.Catalog) Rule {
	return Rule{
		Patterns: []tokenizer.Pattern{tokenizer.EmojiPattern()},
		Replace: func(tok tokenizer.Token, attrs richtext.AttributeSet) *richtext.Run {
			url, ok := catalog.Lookup(tok.Captured)
			if !ok {
				return nil
			}
			return &richtext.Run{
				Content:    tok.Content,
				Attributes: attrs.Merge(richtext.AttributeSet{richtext.AttrEmoji: url}),
			}
		},
	}
}

// MathRule 公式替换规则：把捕获的 LaTeX 内容包进附件占位属性，
// 块级与行内由单元类型区分。行内公式中的 \$ 转义保持原样写入附件，
// 是否反转义由下游渲染方决定。
func MathRule() Rule {
	return Rule{
		// 块级模式必须排在行内之前
		Patterns: []tokenizer.Pattern{tokenizer.MathBlockPattern(), tokenizer.MathInlinePattern()},
		Replace: func(tok tokenizer.Token, attrs richtext.AttributeSet) *richtext.Run {
			return &richtext.Run{
				Content: richtext.AttachmentCharacter,
				Attributes: attrs.Merge(richtext.AttributeSet{
					richtext.AttrAttachment: richtext.Attachment{
						LaTeX: tok.Captured,
						Block: tok.Type == tokenizer.TypeMathBlock,
					},
				}),
			}
		},
	}
}
