package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagweave/tagweave/internal/store"
)

func TestImport_PersistsRules(t *testing.T) {
	rulesDir := writeRulesDir(t)
	dbPath := filepath.Join(t.TempDir(), "tagweave.db")

	out, err := runCommand(t, "import", rulesDir, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 rule(s)")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.ListRules(context.Background(), "harry-potter")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "ship-conflict", loaded[0].ID)
}

func TestImport_Rerunnable(t *testing.T) {
	rulesDir := writeRulesDir(t)
	dbPath := filepath.Join(t.TempDir(), "tagweave.db")

	_, err := runCommand(t, "import", rulesDir, "--db", dbPath)
	require.NoError(t, err)
	_, err = runCommand(t, "import", rulesDir, "--db", dbPath)
	require.NoError(t, err)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.ListRules(context.Background(), "harry-potter")
	require.NoError(t, err)
	assert.Len(t, loaded, 1, "re-import must not duplicate rules")
}

func TestImport_DefectiveRulesNotPersisted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", `
rule: "bad": {
	name:   "Bad"
	fandom: "f"
	conditions: [{
		id:       "c1"
		type:     "tag_present"
		target:   "t"
		operator: "equals"
	}]
	actions: [{
		id:      "a1"
		type:    "error"
		message: ""
	}]
}
`)
	dbPath := filepath.Join(t.TempDir(), "tagweave.db")

	_, err := runCommand(t, "import", dir, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestImport_MissingDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tagweave.db")

	_, err := runCommand(t, "import", "/does/not/exist", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
