package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with the given args and returns
// captured output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeRulesDir lays down a small, clean CUE rule set.
func writeRulesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "rules.cue", `
rule: "ship-conflict": {
	name:     "Harry ship conflict"
	fandom:   "harry-potter"
	logic:    "AND"
	priority: 10
	conditions: [{
		id:       "c1"
		type:     "tag_present"
		target:   "harry-hermione-tag"
		operator: "equals"
		value:    true
	}, {
		id:       "c2"
		type:     "tag_present"
		target:   "harry-ginny-tag"
		operator: "equals"
		value:    true
	}]
	actions: [{
		id:       "ship-conflict-error"
		type:     "error"
		severity: "high"
		message:  "Cannot select both Harry/Hermione and Harry/Ginny ships"
	}]
}
`)
	return dir
}

const conflictingSelection = `fandom: harry-potter
tags:
  - harry-hermione-tag
  - harry-ginny-tag
`

const cleanSelection = `fandom: harry-potter
tags:
  - harry-hermione-tag
`
