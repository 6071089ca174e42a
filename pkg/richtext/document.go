package richtext

import (
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Format 文档来源格式
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
	FormatUnknown  Format = "unknown"
)

// Metadata 文档元数据，来自前置元数据（front matter）或 HTML head
type Metadata struct {
	Title        string
	Author       string
	Language     language.Tag
	CustomFields map[string]interface{}
}

// Document 富文本文档及其元数据
type Document struct {
	// ID 文档唯一标识
	ID string
	// Format 来源格式
	Format Format
	// Metadata 文档元数据
	Metadata Metadata
	// Content 运行序列
	Content Text
}

// NewDocument 创建带唯一标识的空文档
func NewDocument(format Format) *Document {
	return &Document{
		ID:       uuid.NewString(),
		Format:   format,
		Metadata: Metadata{Language: language.Und},
	}
}
