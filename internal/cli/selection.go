package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tagweave/tagweave/internal/rules"
)

// Selection is the YAML shape of a reader's tag selection.
type Selection struct {
	// Fandom scopes the validation. Leaving it empty draws an advisory
	// warning from the engine rather than a hard error.
	Fandom string `yaml:"fandom"`

	// Tags lists selected tag ids.
	Tags []string `yaml:"tags,omitempty"`

	// PlotBlocks lists selected plot block ids.
	PlotBlocks []string `yaml:"plot_blocks,omitempty"`

	// TagClasses maps a class name to the tag ids belonging to it, used
	// by tag_class_constraint conditions.
	TagClasses map[string][]string `yaml:"tag_classes,omitempty"`
}

// LoadSelection reads and parses a selection YAML file.
// Unknown fields are rejected so typos fail loudly instead of being
// silently dropped from the selection.
func LoadSelection(path string) (*Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection file: %w", err)
	}

	var sel Selection
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sel); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &sel, nil
}

// Input converts the selection into an engine validation input,
// normalizing all ids.
func (s *Selection) Input() rules.ValidationInput {
	return rules.NewValidationInput(s.Fandom, s.Tags, s.PlotBlocks, s.TagClasses)
}

// BlockFile is the YAML shape of a plot block hierarchy.
type BlockFile struct {
	Fandom string      `yaml:"fandom,omitempty"`
	Blocks []BlockNode `yaml:"blocks"`
}

// BlockNode is one plot block entry in a block file.
type BlockNode struct {
	ID           string   `yaml:"id"`
	Parent       string   `yaml:"parent,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// LoadBlockFile reads and parses a plot block YAML file with strict
// field checking.
func LoadBlockFile(path string) (*BlockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read block file: %w", err)
	}

	var bf BlockFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(bf.Blocks) == 0 {
		return nil, fmt.Errorf("block file declares no blocks")
	}
	for i, b := range bf.Blocks {
		if b.ID == "" {
			return nil, fmt.Errorf("blocks[%d]: id is required", i)
		}
	}

	return &bf, nil
}

// Nodes converts the file entries into analyzer nodes, normalizing ids.
func (bf *BlockFile) Nodes() []rules.PlotBlockNode {
	nodes := make([]rules.PlotBlockNode, len(bf.Blocks))
	for i, b := range bf.Blocks {
		nodes[i] = rules.PlotBlockNode{
			ID:           rules.NormalizeID(b.ID),
			ParentID:     rules.NormalizeID(b.Parent),
			Dependencies: rules.NormalizeIDs(b.Dependencies),
		}
	}
	return nodes
}
