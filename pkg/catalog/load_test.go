package catalog

import (
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFS(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, fsys.Mkdir("data", 0o755))
	require.NoError(t, hackpadfs.WriteFullFile(fsys, "data/story.json", []byte(sampleDoc), 0o644))

	ds, err := Load(fsys, "data/story.json")
	require.NoError(t, err)
	assert.Len(t, ds.Decisions, 1)
	assert.Equal(t, []string{"tape1", "tape2"}, ds.Tapes)
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)

	_, err = Load(fsys, "data/story.json")
	assert.Error(t, err)
}
