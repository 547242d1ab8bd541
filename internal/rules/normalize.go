package rules

import "golang.org/x/text/unicode/norm"

// NormalizeID returns the NFC form of a tag, plot-block, or tag-class id.
//
// Tag ids come from two places that may disagree on Unicode composition:
// admin-authored rule files and user selections round-tripped through
// browsers. Comparing NFC forms makes "café" equal "café" regardless of
// which encoder produced it.
func NormalizeID(id string) string {
	return norm.NFC.String(id)
}

// NormalizeIDs returns a new slice with every id in NFC form.
func NormalizeIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = NormalizeID(id)
	}
	return out
}
