package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Kunde21/markdownfmt/v3"
	"github.com/Kunde21/markdownfmt/v3/markdown"
	"go.uber.org/zap"
)

// FormatError 格式化错误
type FormatError struct {
	Formatter string
	Reason    string
	Err       error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return e.Formatter + ": " + e.Reason + ": " + e.Err.Error()
	}
	return e.Formatter + ": " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// MarkdownNormalizer Markdown 规范化器：解析前用 markdownfmt 统一源文本格式。
// 公式定界符不是 markdownfmt 认识的语法，规范化前先打占位符保护，完成后恢复。
type MarkdownNormalizer struct {
	logger *zap.Logger
}

// NewMarkdownNormalizer 创建规范化器
func NewMarkdownNormalizer(logger *zap.Logger) *MarkdownNormalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkdownNormalizer{logger: logger}
}

// 需要保护的公式区间，块级在前
var protectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\$\$.+?\$\$`),
	regexp.MustCompile(`\$[^$\n]+\$`),
}

// Normalize 规范化 Markdown 源文本
func (n *MarkdownNormalizer) Normalize(content []byte) ([]byte, error) {
	protected, markers := n.protect(string(content))

	opts := []markdown.Option{
		markdown.WithCodeFormatters(markdown.GoCodeFormatter),
	}
	formatted, err := markdownfmt.Process("", []byte(protected), opts...)
	if err != nil {
		return nil, &FormatError{
			Formatter: "markdown-normalizer",
			Reason:    "markdown formatting failed",
			Err:       err,
		}
	}

	result := n.restore(string(formatted), markers)
	n.logger.Debug("markdown normalized",
		zap.Int("original_length", len(content)),
		zap.Int("normalized_length", len(result)),
		zap.Int("protected_spans", len(markers)))
	return []byte(result), nil
}

// protect 把公式区间替换为占位符
func (n *MarkdownNormalizer) protect(text string) (string, map[string]string) {
	markers := make(map[string]string)
	for _, pattern := range protectPatterns {
		text = pattern.ReplaceAllStringFunc(text, func(match string) string {
			marker := fmt.Sprintf("@@TEXTUAL_PROTECTED_%d@@", len(markers))
			markers[marker] = match
			return marker
		})
	}
	return text, markers
}

// restore 恢复所有占位符
func (n *MarkdownNormalizer) restore(text string, markers map[string]string) string {
	for marker, original := range markers {
		text = strings.ReplaceAll(text, marker, original)
	}
	return text
}
