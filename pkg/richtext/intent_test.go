package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentBelow(t *testing.T) {
	// 层级从最内层到最外层：段落 < 列表项 < 列表
	hierarchy := Intent{
		{Kind: IntentParagraph, Identity: 3},
		{Kind: IntentListItem, Identity: 2},
		{Kind: IntentList, Identity: 1},
	}

	t.Run("No Parent Returns Outermost", func(t *testing.T) {
		c, ok := hierarchy.Below(IntentNone)
		require.True(t, ok)
		assert.Equal(t, IntentComponent{Kind: IntentList, Identity: 1}, c)
	})

	t.Run("Parent Returns Next More Specific", func(t *testing.T) {
		c, ok := hierarchy.Below(IntentList)
		require.True(t, ok)
		assert.Equal(t, IntentComponent{Kind: IntentListItem, Identity: 2}, c)

		c, ok = hierarchy.Below(IntentListItem)
		require.True(t, ok)
		assert.Equal(t, IntentComponent{Kind: IntentParagraph, Identity: 3}, c)
	})

	t.Run("Innermost Parent Has Nothing Below", func(t *testing.T) {
		_, ok := hierarchy.Below(IntentParagraph)
		assert.False(t, ok)
	})

	t.Run("Absent Parent", func(t *testing.T) {
		_, ok := hierarchy.Below(IntentTable)
		assert.False(t, ok)
	})

	t.Run("Empty Hierarchy", func(t *testing.T) {
		_, ok := Intent(nil).Below(IntentNone)
		assert.False(t, ok)
		_, ok = Intent(nil).Below(IntentList)
		assert.False(t, ok)
	})
}
