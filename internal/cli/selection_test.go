package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSelection_Full(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sel.yaml", `fandom: harry-potter
tags:
  - angst-tag
plot_blocks:
  - goblin-inheritance
tag_classes:
  ships:
    - harry-hermione-tag
    - harry-ginny-tag
`)

	sel, err := LoadSelection(path)
	require.NoError(t, err)

	input := sel.Input()
	assert.Equal(t, "harry-potter", input.FandomID)
	assert.True(t, input.HasTag("angst-tag"))
	assert.True(t, input.HasPlotBlock("goblin-inheritance"))

	count, ok := input.ClassCount("ships")
	require.True(t, ok)
	assert.Equal(t, 0, count, "class membership alone does not select tags")
}

func TestLoadSelection_UnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sel.yaml", "fandom: f\nselected: [a]\n")

	_, err := LoadSelection(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML")
}

func TestBlockFile_Nodes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blocks.yaml", acyclicBlocks)

	bf, err := LoadBlockFile(path)
	require.NoError(t, err)

	nodes := bf.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "gringotts-arc", nodes[0].ID)
	assert.Equal(t, "gringotts-arc", nodes[1].ParentID)
	assert.Equal(t, []string{"wills-and-titles"}, nodes[1].Dependencies)
}

func TestLoadBlockFile_MissingID(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blocks.yaml", "blocks:\n  - parent: x\n")

	_, err := LoadBlockFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
}
