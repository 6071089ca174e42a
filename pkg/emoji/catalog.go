package emoji

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Record 表情映射记录：短代码 → 资源地址
type Record struct {
	Shortcode string
	URL       string
}

// Catalog 表情短代码目录。查找对 ASCII 大小写不敏感；
// 未知短代码由调用方保持原文，目录本身不报错。
type Catalog struct {
	entries map[string]string
}

// NewCatalog 由记录集合构建目录，短代码重复时后者覆盖前者
func NewCatalog(records []Record) *Catalog {
	entries := make(map[string]string, len(records))
	for _, r := range records {
		entries[strings.ToLower(r.Shortcode)] = r.URL
	}
	return &Catalog{entries: entries}
}

// Lookup 查找短代码对应的资源地址
func (c *Catalog) Lookup(shortcode string) (string, bool) {
	url, ok := c.entries[strings.ToLower(shortcode)]
	return url, ok
}

// Len 目录中的短代码数量
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Shortcodes 返回排序后的全部短代码
func (c *Catalog) Shortcodes() []string {
	codes := make([]string, 0, len(c.entries))
	for code := range c.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Suggest 为未知短代码给出最接近的候选，按匹配程度排序，最多 limit 个。
// 用于命令行诊断输出。
func (c *Catalog) Suggest(shortcode string, limit int) []string {
	ranks := fuzzy.RankFindNormalizedFold(strings.ToLower(shortcode), c.Shortcodes())
	sort.Sort(ranks)
	suggestions := make([]string, 0, limit)
	for _, r := range ranks {
		if len(suggestions) >= limit {
			break
		}
		suggestions = append(suggestions, r.Target)
	}
	return suggestions
}
