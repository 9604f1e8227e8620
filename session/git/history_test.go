package git

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentCommits(t *testing.T) {
	t.Run("returns most recent first in push order", func(t *testing.T) {
		upstream := setupUpstream(t)
		ws := openTestWorkspace(t, upstream, "generalist-0")

		for i := 1; i <= 5; i++ {
			writeWorkspaceFile(t, ws, "counter.txt", fmt.Sprintf("%d", i))
			require.True(t, ws.Publish(fmt.Sprintf("Update %d", i)))
		}

		commits := RecentCommits(upstream.Path, 3)
		require.Len(t, commits, 3)
		assert.Equal(t, "Update 5", commits[0].Message)
		assert.Equal(t, "Update 4", commits[1].Message)
		assert.Equal(t, "Update 3", commits[2].Message)

		for _, c := range commits {
			assert.Len(t, c.Hash, 8)
			assert.Equal(t, "Test Agent", c.Author)
			assert.NotEmpty(t, c.When)
		}
	})

	t.Run("count larger than history returns everything", func(t *testing.T) {
		upstream := setupUpstream(t)

		commits := RecentCommits(upstream.Path, 50)
		require.Len(t, commits, 1)
		assert.Equal(t, "Initial swarm scaffold", commits[0].Message)
	})

	t.Run("unreadable repository yields empty result", func(t *testing.T) {
		assert.Empty(t, RecentCommits(filepath.Join(t.TempDir(), "nope"), 10))
		assert.Empty(t, RecentCommits(t.TempDir(), 10))
	})
}
