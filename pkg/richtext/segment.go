package richtext

import "unicode/utf8"

// Range 半开字符区间 [Start, End)
type Range struct {
	Start int
	End   int
}

// Length 区间长度
func (r Range) Length() int {
	return r.End - r.Start
}

// BlockRun 共享同一投影意图的最大连续文档区域。
// 所有 BlockRun 的区间恰好划分整个文档一次。
type BlockRun struct {
	// Intent 边界处的投影意图，无意图时为 nil
	Intent *IntentComponent
	// Range 构成运行的字符区间并集
	Range Range
	// Runs 构成该块的运行序列
	Runs Text
}

// Segment 将文档按"紧邻 parent 内侧的意图"投影分组为连续块区域。
// 单次从左到右遍历；每当投影值发生变化（包括进出"无意图"状态）即产生新边界。
func Segment(doc Text, parent IntentKind) []BlockRun {
	var blocks []BlockRun
	offset := 0
	for _, run := range doc {
		var projected *IntentComponent
		if c, ok := run.Intent().Below(parent); ok {
			projected = &c
		}
		end := offset + utf8.RuneCountInString(run.Content)
		if len(blocks) == 0 || !sameIntent(blocks[len(blocks)-1].Intent, projected) {
			blocks = append(blocks, BlockRun{
				Intent: projected,
				Range:  Range{Start: offset, End: end},
			})
		}
		last := &blocks[len(blocks)-1]
		last.Range.End = end
		last.Runs = append(last.Runs, run)
		offset = end
	}
	return blocks
}

// sameIntent 按值比较两个投影意图，nil 与任何意图都不相等
func sameIntent(a, b *IntentComponent) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
