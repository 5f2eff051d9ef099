package images

import (
	"strings"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
)

// SearchConfidenceGate is the strict lower bound a label or text detection
// must exceed for a record to match a query.
const SearchConfidenceGate = 70.0

// SummaryLabelLimit is how many stored labels a gallery summary carries.
const SummaryLabelLimit = 5

// Matches reports whether any label name or detected text contains q and
// has confidence above SearchConfidenceGate. q must already be lower-cased.
func (img *Image) Matches(q string) bool {
	for _, l := range img.Analysis.Labels {
		if strings.Contains(strings.ToLower(l.Name), q) && l.Confidence > SearchConfidenceGate {
			return true
		}
	}
	for _, t := range img.Analysis.Text {
		if strings.Contains(strings.ToLower(t.DetectedText), q) && t.Confidence > SearchConfidenceGate {
			return true
		}
	}
	return false
}

// MatchingLabels lists every label containing q, whatever its confidence.
func (img *Image) MatchingLabels(q string) []LabelMatch {
	out := []LabelMatch{}
	for _, l := range img.Analysis.Labels {
		if strings.Contains(strings.ToLower(l.Name), q) {
			out = append(out, LabelMatch{Name: l.Name, Confidence: l.Confidence})
		}
	}
	return out
}

// MatchingText lists every text detection containing q, whatever its confidence.
func (img *Image) MatchingText(q string) []TextMatch {
	out := []TextMatch{}
	for _, t := range img.Analysis.Text {
		if strings.Contains(strings.ToLower(t.DetectedText), q) {
			out = append(out, TextMatch{Text: t.DetectedText, Confidence: t.Confidence})
		}
	}
	return out
}

// TopLabels returns the first n stored labels without re-sorting.
func (img *Image) TopLabels(n int) []analysis.Label {
	labels := img.Analysis.Labels
	if len(labels) > n {
		labels = labels[:n]
	}
	out := make([]analysis.Label, len(labels))
	copy(out, labels)
	return out
}
