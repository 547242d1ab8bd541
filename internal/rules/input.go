package rules

// ValidationInput is the user's current selection within a fandom.
// Order of tags and plot blocks is irrelevant; membership is what counts.
// The engine never mutates an input.
type ValidationInput struct {
	FandomID           string
	SelectedTags       map[string]bool
	SelectedPlotBlocks map[string]bool
	TagClasses         map[string]map[string]bool
}

// NewValidationInput builds an input from plain slices, normalizing every
// id to NFC so membership tests are composition-insensitive.
func NewValidationInput(fandomID string, tags, plotBlocks []string, tagClasses map[string][]string) ValidationInput {
	in := ValidationInput{
		FandomID:           fandomID,
		SelectedTags:       make(map[string]bool, len(tags)),
		SelectedPlotBlocks: make(map[string]bool, len(plotBlocks)),
		TagClasses:         make(map[string]map[string]bool, len(tagClasses)),
	}
	for _, t := range tags {
		in.SelectedTags[NormalizeID(t)] = true
	}
	for _, b := range plotBlocks {
		in.SelectedPlotBlocks[NormalizeID(b)] = true
	}
	for class, members := range tagClasses {
		set := make(map[string]bool, len(members))
		for _, m := range members {
			set[NormalizeID(m)] = true
		}
		in.TagClasses[NormalizeID(class)] = set
	}
	return in
}

// HasTag reports whether the tag is selected.
func (in ValidationInput) HasTag(id string) bool {
	return in.SelectedTags[NormalizeID(id)]
}

// HasPlotBlock reports whether the plot block is selected.
func (in ValidationInput) HasPlotBlock(id string) bool {
	return in.SelectedPlotBlocks[NormalizeID(id)]
}

// ClassCount returns the number of selected tags belonging to the class
// and whether the class is known to this input at all.
func (in ValidationInput) ClassCount(class string) (int, bool) {
	members, ok := in.TagClasses[NormalizeID(class)]
	if !ok {
		return 0, false
	}
	count := 0
	for tag := range members {
		if in.SelectedTags[tag] {
			count++
		}
	}
	return count, true
}

// SelectionIDs returns all selected tag and plot-block ids. Used by the
// orchestrator's input sanity pass; ordering is not specified.
func (in ValidationInput) SelectionIDs() []string {
	ids := make([]string, 0, len(in.SelectedTags)+len(in.SelectedPlotBlocks))
	for t := range in.SelectedTags {
		ids = append(ids, t)
	}
	for b := range in.SelectedPlotBlocks {
		ids = append(ids, b)
	}
	return ids
}
