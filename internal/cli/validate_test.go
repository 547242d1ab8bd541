package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagweave/tagweave/internal/rules"
)

func TestValidate_CleanSelection(t *testing.T) {
	rulesDir := writeRulesDir(t)
	sel := writeFile(t, t.TempDir(), "sel.yaml", cleanSelection)

	out, err := runCommand(t, "validate", sel, "--rules", rulesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Selection valid")
}

func TestValidate_ConflictExitsOne(t *testing.T) {
	rulesDir := writeRulesDir(t)
	sel := writeFile(t, t.TempDir(), "sel.yaml", conflictingSelection)

	out, err := runCommand(t, "validate", sel, "--rules", rulesDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Selection invalid")
	assert.Contains(t, out, "Cannot select both Harry/Hermione and Harry/Ginny ships")
}

func TestValidate_JSONOutput(t *testing.T) {
	rulesDir := writeRulesDir(t)
	sel := writeFile(t, t.TempDir(), "sel.yaml", conflictingSelection)

	out, err := runCommand(t, "--format", "json", "validate", sel, "--rules", rulesDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result rules.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "ship-conflict-error", result.Errors[0].ID)
	assert.Equal(t, 1, result.RulesEvaluated)
}

func TestValidate_RequiresExactlyOneSource(t *testing.T) {
	sel := writeFile(t, t.TempDir(), "sel.yaml", cleanSelection)

	_, err := runCommand(t, "validate", sel)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runCommand(t, "validate", sel, "--rules", "x", "--db", "y")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_MissingSelectionFile(t *testing.T) {
	rulesDir := writeRulesDir(t)

	_, err := runCommand(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"), "--rules", rulesDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_UnknownSelectionFieldRejected(t *testing.T) {
	rulesDir := writeRulesDir(t)
	sel := writeFile(t, t.TempDir(), "sel.yaml", "fandom: f\ntagz: [a]\n")

	_, err := runCommand(t, "validate", sel, "--rules", rulesDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_FromDatabase(t *testing.T) {
	rulesDir := writeRulesDir(t)
	dbPath := filepath.Join(t.TempDir(), "tagweave.db")

	_, err := runCommand(t, "import", rulesDir, "--db", dbPath)
	require.NoError(t, err)

	sel := writeFile(t, t.TempDir(), "sel.yaml", conflictingSelection)
	out, err := runCommand(t, "validate", sel, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Cannot select both Harry/Hermione and Harry/Ginny ships")
}

func TestValidate_ParallelWorkers(t *testing.T) {
	rulesDir := writeRulesDir(t)
	sel := writeFile(t, t.TempDir(), "sel.yaml", conflictingSelection)

	out, err := runCommand(t, "--format", "json", "validate", sel, "--rules", rulesDir, "--workers", "4")
	require.Error(t, err)

	var result rules.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
}
