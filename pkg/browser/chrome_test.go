package browser

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/pkg/models"
)

func TestChromePage_UploadDirsRemovedOnClose(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := &ChromePage{logger: arbor.NewLogger(), tempFs: fs}

	dir, paths, err := p.stageUploads([]models.FilePayload{
		{Name: "fixtures/rates.csv", Content: []byte("code,rate\n")},
		{Name: "bundle.zip", Content: []byte{0x50, 0x4b}},
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "rates.csv"), paths[0])

	content, err := afero.ReadFile(fs, paths[0])
	require.NoError(t, err)
	assert.Equal(t, "code,rate\n", string(content))

	second, _, err := p.stageUploads([]models.FilePayload{{Name: "other.csv"}})
	require.NoError(t, err)

	require.NoError(t, p.Close())
	for _, d := range []string{dir, second} {
		exists, err := afero.DirExists(fs, d)
		require.NoError(t, err)
		assert.False(t, exists, "%s should be removed", d)
	}
	assert.NoError(t, p.Close(), "second close is a no-op")
}
