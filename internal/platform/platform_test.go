package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkDir_EnvWins(t *testing.T) {
	t.Setenv("WORK_DIR", "/srv/zhseg")
	assert.Equal(t, "/srv/zhseg", DefaultWorkDir())
}

func TestDefaultWorkDir_Fallback(t *testing.T) {
	t.Setenv("WORK_DIR", "")
	assert.Contains(t, DefaultWorkDir(), "zhseg")
}

func TestEnsureParent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "zhseg.db")
	require.NoError(t, EnsureParent(file))
	info, err := os.Stat(filepath.Dir(file))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
