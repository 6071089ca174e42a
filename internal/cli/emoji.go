package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-textual/pkg/emoji"
)

var (
	// emoji 命令的标志
	emojiCatalogPath string
	emojiLimit       int
)

// newEmojiCommand 创建 emoji 命令及其子命令
func newEmojiCommand() *cobra.Command {
	emojiCmd := &cobra.Command{
		Use:   "emoji",
		Short: "查看与搜索表情目录",
	}
	emojiCmd.PersistentFlags().StringVar(&emojiCatalogPath, "catalog", "", "表情目录 TOML 文件路径（默认取配置）")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "列出目录中的全部表情短代码",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := openCatalog()
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"短代码", "URL"})
			for _, shortcode := range catalog.Shortcodes() {
				url, _ := catalog.Lookup(shortcode)
				tw.AppendRow(table.Row{shortcode, url})
			}
			tw.AppendFooter(table.Row{"总数", catalog.Len()})
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest shortcode",
		Short: "按相似度搜索表情短代码",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := openCatalog()
			if err != nil {
				return err
			}

			matches := catalog.Suggest(args[0], emojiLimit)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("没有找到与 %q 相近的短代码", args[0]))
				return nil
			}
			for _, shortcode := range matches {
				url, _ := catalog.Lookup(shortcode)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", color.GreenString(":%s:", shortcode), url)
			}
			return nil
		},
	}
	suggestCmd.Flags().IntVar(&emojiLimit, "limit", 5, "最多返回的候选数量")

	emojiCmd.AddCommand(listCmd)
	emojiCmd.AddCommand(suggestCmd)
	return emojiCmd
}

// openCatalog 打开表情目录：优先 --catalog 标志，其次配置文件
func openCatalog() (*emoji.Catalog, error) {
	path := emojiCatalogPath
	if path == "" {
		cfg, _, err := setup()
		if err != nil {
			return nil, err
		}
		path = cfg.EmojiCatalog
	}
	if path == "" {
		return nil, fmt.Errorf("no emoji catalog configured, use --catalog or set emoji_catalog in config")
	}
	catalog, err := emoji.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load emoji catalog: %w", err)
	}
	return catalog, nil
}
