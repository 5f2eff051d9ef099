package images

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
)

func TestDecodeKey(t *testing.T) {
	cases := map[string]string{
		"u1/abc.jpg":             "u1/abc.jpg",
		"u1/my+holiday+pic.png":  "u1/my holiday pic.png",
		"u%C3%A9/caf%C3%A9.jpeg": "ué/café.jpeg",
		"u1/100%25.gif":          "u1/100%.gif",
	}
	for raw, want := range cases {
		got, err := DecodeKey(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := DecodeKey("u1/%zz.jpg")
	assert.Error(t, err)
}

func TestOwnerFromKey(t *testing.T) {
	owner, err := OwnerFromKey("u1/0f3c.jpg")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	owner, err = OwnerFromKey("lonely.jpg")
	require.NoError(t, err)
	assert.Equal(t, "lonely.jpg", owner)

	owner, err = OwnerFromKey("a/b/c.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a", owner)

	_, err = OwnerFromKey("/x.jpg")
	assert.True(t, errors.Is(err, ErrMissingOwner))
	_, err = OwnerFromKey("")
	assert.True(t, errors.Is(err, ErrMissingOwner))
}

func TestUploadKey(t *testing.T) {
	assert.Equal(t, "u1/id.JPG", UploadKey("u1", "id", "photo.JPG"))
	assert.Equal(t, "u1/id.gz", UploadKey("u1", "id", "archive.tar.gz"))
	assert.Equal(t, "u1/id.noext", UploadKey("u1", "id", "noext"))
	assert.Equal(t, "png", FileExtension(".png"))
}

func record(labels []analysis.Label, text []analysis.TextDetection) *Image {
	return &Image{ID: "img-1", OwnerID: "u1", Analysis: analysis.Result{Labels: labels, Text: text}}
}

func TestMatchesLabelGate(t *testing.T) {
	hi := record([]analysis.Label{{Name: "Cat", Confidence: 95}}, nil)
	assert.True(t, hi.Matches("cat"))
	assert.Equal(t, []LabelMatch{{Name: "Cat", Confidence: 95}}, hi.MatchingLabels("cat"))

	lo := record([]analysis.Label{{Name: "Cat", Confidence: 50}}, nil)
	assert.False(t, lo.Matches("cat"))

	atGate := record([]analysis.Label{{Name: "Cat", Confidence: 70}}, nil)
	assert.False(t, atGate.Matches("cat"), "gate is strictly greater than 70")
}

func TestMatchListsAreUnfilteredOnceMatched(t *testing.T) {
	img := record(
		[]analysis.Label{{Name: "Cat", Confidence: 50}, {Name: "Dog", Confidence: 99}},
		[]analysis.TextDetection{{DetectedText: "CAT CAFE", Type: "LINE", Confidence: 98}, {DetectedText: "cat", Type: "WORD", Confidence: 10}},
	)

	require.True(t, img.Matches("cat"))
	assert.Equal(t, []LabelMatch{{Name: "Cat", Confidence: 50}}, img.MatchingLabels("cat"))
	assert.Equal(t, []TextMatch{{Text: "CAT CAFE", Confidence: 98}, {Text: "cat", Confidence: 10}}, img.MatchingText("cat"))
}

func TestMatchingListsNeverNil(t *testing.T) {
	img := record(nil, nil)
	assert.NotNil(t, img.MatchingLabels("x"))
	assert.NotNil(t, img.MatchingText("x"))
	assert.False(t, img.Matches("x"))
}

func TestTopLabels(t *testing.T) {
	var labels []analysis.Label
	for i := 0; i < 8; i++ {
		labels = append(labels, analysis.Label{Name: fmt.Sprintf("l%d", i), Confidence: float64(71 + i)})
	}
	img := record(labels, nil)

	top := img.TopLabels(SummaryLabelLimit)
	require.Len(t, top, 5)
	assert.Equal(t, "l0", top[0].Name, "stored order is kept, not re-sorted by confidence")

	top[0].Name = "mutated"
	assert.Equal(t, "l0", img.Analysis.Labels[0].Name)

	assert.Len(t, record(labels[:2], nil).TopLabels(5), 2)
}
