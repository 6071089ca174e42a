package tokenizer

import "unicode/utf8"

// Tokenizer 按顺序模式列表扫描输入文本，产出扁平的词法单元流。
// 同一实现服务于两个调用方：已解析运行文本（回退类型 TypeText）
// 和解析前的原始标记文本（回退类型 TypeMarkup）。
type Tokenizer struct {
	fallback Type
	patterns []Pattern
}

// New 创建分词器。模式顺序即优先级：同一位置多个模式都能匹配时，
// 靠前的模式获胜（块级公式在行内公式之前注册即源于此）。
func New(fallback Type, patterns ...Pattern) *Tokenizer {
	return &Tokenizer{fallback: fallback, patterns: patterns}
}

// Tokenize 从左到右扫描输入。输出是 (input, patterns) 的纯函数，
// 按顺序拼接所有单元的 Content 恰好还原输入。
//
// 扫描规则：
//   - 游标处按顺序尝试每个模式，第一个在游标处（而非之后）匹配成功的获胜；
//   - 获胜时产出一个该模式类型的单元并把游标推进到匹配末尾；
//   - 全部落空时恰好消费一个字符作为纯文本，并与前一个纯文本单元合并
//     （保持纯文本单元最大化），换行与其他字符无异；
//   - 未终结的定界符、空捕获等畸形标记全部退化为纯文本，不报错。
func (t *Tokenizer) Tokenize(input string) []Token {
	if len(t.patterns) == 0 {
		return []Token{{Type: t.fallback, Content: input}}
	}

	var tokens []Token
	for i := 0; i < len(input); {
		matched := false
		for _, p := range t.patterns {
			content, captured, ok := p.match(input[i:])
			if !ok || content == "" {
				// 空匹配视为落空，否则游标无法推进
				continue
			}
			tokens = append(tokens, Token{Type: p.typ, Content: content, Captured: captured})
			i += len(content)
			matched = true
			break
		}
		if matched {
			continue
		}

		_, size := utf8.DecodeRuneInString(input[i:])
		if n := len(tokens); n > 0 && tokens[n-1].Type == t.fallback {
			tokens[n-1].Content += input[i : i+size]
		} else {
			tokens = append(tokens, Token{Type: t.fallback, Content: input[i : i+size]})
		}
		i += size
	}
	return tokens
}
