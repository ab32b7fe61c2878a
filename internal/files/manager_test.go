package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcpulse/internal/config"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	base := t.TempDir()
	return NewManager(&config.Paths{BaseDir: base}, nil), base
}

func TestManager_ReadLines(t *testing.T) {
	m, base := newTestManager(t)
	content := "header\r\n1,a\n\n2,b"
	require.NoError(t, os.WriteFile(filepath.Join(base, "in.csv"), []byte(content), 0644))

	lines, err := m.ReadLines("in.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"header", "1,a", "", "2,b"}, lines)

	_, err = m.ReadLines("missing.csv")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestManager_WriteAtomic(t *testing.T) {
	m, base := newTestManager(t)

	err := m.WriteAtomic("public/out.json", func(w io.Writer) error {
		_, err := io.WriteString(w, `{"ok":true}`)
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, "public", "out.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestManager_WriteAtomic_FailureKeepsPrevious(t *testing.T) {
	m, base := newTestManager(t)
	target := filepath.Join(base, "out.json")
	require.NoError(t, os.WriteFile(target, []byte("previous"), 0644))

	err := m.WriteAtomic(target, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return fmt.Errorf("encoder failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}
