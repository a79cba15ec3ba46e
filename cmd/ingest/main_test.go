package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ingest"
	"github.com/hayeah/ingest/tree"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.txt": "alpha\n",
		"b.log": "noise\n",
		"sub/c.txt": "gamma\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestRunnerDirectWithPatterns(t *testing.T) {
	root := writeFixture(t)
	out := filepath.Join(t.TempDir(), "digest.md")

	runner := &Runner{
		Args: Args{
			Direct: &DirectCmd{Exclude: []string{"*.log"}},
			Root:   root,
			Output: out,
		},
		Config: ingest.DefaultConfig(),
	}
	require.NoError(t, runner.Run())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	digest := string(data)
	assert.Contains(t, digest, "alpha")
	assert.Contains(t, digest, "gamma")
	assert.NotContains(t, digest, "noise")
}

func TestRunnerDirectAll(t *testing.T) {
	root := writeFixture(t)
	out := filepath.Join(t.TempDir(), "digest.md")

	runner := &Runner{
		Args: Args{
			Direct: &DirectCmd{},
			Root:   root,
			All:    true,
			Output: out,
		},
		Config: ingest.DefaultConfig(),
	}
	require.NoError(t, runner.Run())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "noise", "with --all and no patterns every text file is included")
}

func TestRunnerDirectEmptySelection(t *testing.T) {
	root := writeFixture(t)
	out := filepath.Join(t.TempDir(), "digest.md")

	runner := &Runner{
		Args: Args{
			Direct: &DirectCmd{},
			Root:   root,
			Output: out,
		},
		Config: ingest.DefaultConfig(),
	}
	require.NoError(t, runner.Run())

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "nothing selected, nothing written")
}

func TestCheckboxMapping(t *testing.T) {
	assert.Contains(t, checkbox(tree.Included), "[x]")
	assert.Contains(t, checkbox(tree.Partial), "[~]")
	assert.Contains(t, checkbox(tree.Excluded), "[ ]")
}
