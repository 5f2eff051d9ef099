package mysql

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
)

type rowStub struct {
	vals []any
	err  error
}

func (r rowStub) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *domain.ImageID:
			*p = r.vals[i].(domain.ImageID)
		case *string:
			*p = r.vals[i].(string)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		case *[]byte:
			*p = r.vals[i].([]byte)
		}
	}
	return nil
}

func TestScanImageDecodesAnalysis(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	row := rowStub{vals: []any{
		domain.ImageID("a"), "u1", "uploads", "u1/a.jpg", at, at,
		[]byte(`{"labels":[{"name":"Cat","confidence":90}],"text":null}`),
	}}

	img, err := scanImage(row)
	require.NoError(t, err)
	assert.Equal(t, domain.ImageID("a"), img.ID)
	assert.Equal(t, time.UTC, img.CreatedAt.Location())
	assert.Equal(t, "Cat", img.Analysis.Labels[0].Name)
	assert.NotNil(t, img.Analysis.Text)
	assert.NotNil(t, img.Analysis.Faces)
}

func TestScanImagePassesNoRows(t *testing.T) {
	_, err := scanImage(rowStub{err: sql.ErrNoRows})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestNormalizeDetails(t *testing.T) {
	assert.Equal(t, "{}", normalizeDetails("  "))
	assert.Equal(t, `{"error":"x"}`, normalizeDetails(`{"error":"x"}`))
	assert.JSONEq(t, `{"raw":"oops"}`, normalizeDetails("oops"))
}

func TestDashIfEmpty(t *testing.T) {
	assert.Equal(t, "-", dashIfEmpty(" "))
	assert.Equal(t, "fetch", dashIfEmpty("fetch"))
}
