package richtext

// IntentKind 块级结构意图种类
type IntentKind string

const (
	// IntentNone 无意图，用作 Segment 的"无父级"参数
	IntentNone IntentKind = ""
	// IntentParagraph 段落
	IntentParagraph IntentKind = "paragraph"
	// IntentHeading 标题
	IntentHeading IntentKind = "heading"
	// IntentBlockquote 引用块
	IntentBlockquote IntentKind = "blockquote"
	// IntentList 无序列表
	IntentList IntentKind = "list"
	// IntentOrderedList 有序列表
	IntentOrderedList IntentKind = "orderedList"
	// IntentListItem 列表项
	IntentListItem IntentKind = "listItem"
	// IntentCodeBlock 代码块
	IntentCodeBlock IntentKind = "codeBlock"
	// IntentTable 表格
	IntentTable IntentKind = "table"
	// IntentTableRow 表格行
	IntentTableRow IntentKind = "tableRow"
	// IntentTableCell 表格单元格
	IntentTableCell IntentKind = "tableCell"
	// IntentThematicBreak 分隔线
	IntentThematicBreak IntentKind = "thematicBreak"
)

// IntentComponent 意图层级中的一层。Identity 区分同种类的相邻块实例，
// 避免两个相邻列表项在分段时被合并成同一个块。
type IntentComponent struct {
	Kind     IntentKind
	Identity int
}

// Intent 结构意图层级，按从最内层（最具体）到最外层排序
type Intent []IntentComponent

// Below 返回紧邻 parent 内侧（比 parent 更具体一层）的意图层。
// parent 为 IntentNone 时返回最外层（即顶层块种类）；
// parent 不在层级中、或 parent 已是最内层、或层级为空时返回 false。
func (in Intent) Below(parent IntentKind) (IntentComponent, bool) {
	if len(in) == 0 {
		return IntentComponent{}, false
	}
	if parent == IntentNone {
		return in[len(in)-1], true
	}
	for i, c := range in {
		if c.Kind == parent {
			if i == 0 {
				return IntentComponent{}, false
			}
			return in[i-1], true
		}
	}
	return IntentComponent{}, false
}
