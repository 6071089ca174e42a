package emoji

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// catalogFile TOML 目录文件结构：
//
//	[emoji]
//	smile = "https://example.com/smile.png"
//	heart = "https://example.com/heart.png"
type catalogFile struct {
	Emoji map[string]string `toml:"emoji"`
}

// LoadCatalog 从 TOML 文件加载表情目录
func LoadCatalog(path string) (*Catalog, error) {
	var cf catalogFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("failed to decode emoji catalog %s: %w", path, err)
	}
	records := make([]Record, 0, len(cf.Emoji))
	for code, url := range cf.Emoji {
		records = append(records, Record{Shortcode: code, URL: url})
	}
	return NewCatalog(records), nil
}
