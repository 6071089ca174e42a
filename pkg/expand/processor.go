package expand

import (
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-textual/pkg/richtext"
	"github.com/nerdneilsfield/go-textual/pkg/tokenizer"
)

// Processor 模式展开处理器：逐运行重写富文本文档，
// 用规则替换匹配到的单元，未匹配区间的属性保持原样。
type Processor struct {
	rules  []Rule
	tok    *tokenizer.Tokenizer
	logger *zap.Logger
}

// NewProcessor 创建处理器。分词器由所有规则的模式按规则顺序汇总而成，
// 顺序即优先级。模式编译错误在 Pattern 构造期已经暴露，这里不再失败。
func NewProcessor(rules []Rule, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	var patterns []tokenizer.Pattern
	for _, r := range rules {
		patterns = append(patterns, r.Patterns...)
	}
	return &Processor{
		rules:  rules,
		tok:    tokenizer.New(tokenizer.TypeText, patterns...),
		logger: logger,
	}
}

// Expand 重写文档。规则为空时原样返回；预格式化运行绝不参与分词；
// 整段未命中的运行保持属性集合的引用同一性（而不仅是等价）。
func (p *Processor) Expand(doc richtext.Text) richtext.Text {
	if len(p.rules) == 0 {
		return doc
	}

	var out richtext.Text
	rewritten := 0
	for _, run := range doc {
		if run.IsPreformatted() {
			out = append(out, run)
			continue
		}

		tokens := p.tok.Tokenize(run.Content)
		if len(tokens) == 0 || (len(tokens) == 1 && tokens[0].Type == tokenizer.TypeText) {
			// 整段未命中，原运行原样保留
			out = append(out, run)
			continue
		}

		rewritten++
		for _, tok := range tokens {
			if replacement := p.replace(tok, run.Attributes); replacement != nil {
				out = append(out, *replacement)
				continue
			}
			// 无规则认领或规则放弃：保留原文与原属性
			out = append(out, richtext.Run{Content: tok.Content, Attributes: run.Attributes})
		}
	}

	p.logger.Debug("pattern expansion completed",
		zap.Int("input_runs", len(doc)),
		zap.Int("output_runs", len(out)),
		zap.Int("rewritten_runs", rewritten))
	return out
}

// replace 按规则顺序找到第一个认领该单元类型的规则并执行替换回调
func (p *Processor) replace(tok tokenizer.Token, attrs richtext.AttributeSet) *richtext.Run {
	if tok.Type.IsFallback() {
		return nil
	}
	for _, r := range p.rules {
		if r.claims(tok.Type) {
			return r.Replace(tok, attrs)
		}
	}
	return nil
}
