package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

func TestParseFilters(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		filters, err := parseFilters(nil)
		require.NoError(t, err)
		assert.Nil(t, filters)
	})

	t.Run("accumulates repeated names", func(t *testing.T) {
		filters, err := parseFilters([]string{"tag:image=redis:7", "status=ACTIVE", "status=FAILED"})
		require.NoError(t, err)
		assert.Equal(t, []ags.Filter{
			{Name: "tag:image", Values: []string{"redis:7"}},
			{Name: "status", Values: []string{"ACTIVE", "FAILED"}},
		}, filters)
	})

	t.Run("rejects malformed", func(t *testing.T) {
		_, err := parseFilters([]string{"no-separator"})
		require.Error(t, err)

		var flagErr *cmdutil.FlagError
		assert.ErrorAs(t, err, &flagErr)
	})
}
