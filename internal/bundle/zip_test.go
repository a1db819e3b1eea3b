package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

type stubFetcher struct {
	files map[string][]byte
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if data, ok := f.files[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("fetch %s failed with status 404", url)
}

func records(n int) []entity.EvidenceRecord {
	var out []entity.EvidenceRecord
	for i := 0; i < n; i++ {
		out = append(out, entity.EvidenceRecord{
			ID:       int64(i + 1),
			FileURL:  fmt.Sprintf("https://files.test/f%d.jpg", i+1),
			FileName: fmt.Sprintf("f%d.jpg", i+1),
			FileType: "image/jpeg",
		})
	}
	return out
}

func TestBundleSkipsFailedFetch(t *testing.T) {
	recs := records(4)
	fetcher := &stubFetcher{files: map[string][]byte{}}
	for i, rec := range recs {
		if i == 2 {
			continue // this one 404s
		}
		fetcher.files[rec.FileURL] = []byte(fmt.Sprintf("content-%d", i))
	}

	b := NewBundler(fetcher, zap.NewNop())
	result, err := b.Bundle(context.Background(), recs, "TK-42")
	require.NoError(t, err, "one failed attachment must not abort the bundle")
	assert.Equal(t, 3, result.Included)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "evidencias_tk42.zip", result.Artifact.FileName)

	zr, err := zip.NewReader(bytes.NewReader(result.Artifact.Data), int64(len(result.Artifact.Data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	assert.Equal(t, "TK42/f1.jpg", zr.File[0].Name)
	assert.Equal(t, "TK42/f2.jpg", zr.File[1].Name)
	assert.Equal(t, "TK42/f4.jpg", zr.File[2].Name)
}

func TestBundleDuplicateNames(t *testing.T) {
	recs := []entity.EvidenceRecord{
		{ID: 1, FileURL: "https://files.test/a", FileName: "photo.jpg"},
		{ID: 2, FileURL: "https://files.test/b", FileName: "photo.jpg"},
	}
	fetcher := &stubFetcher{files: map[string][]byte{
		"https://files.test/a": []byte("one"),
		"https://files.test/b": []byte("two"),
	}}

	b := NewBundler(fetcher, zap.NewNop())
	result, err := b.Bundle(context.Background(), recs, "")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(result.Artifact.Data), int64(len(result.Artifact.Data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "evidencias/photo.jpg", zr.File[0].Name)
	assert.Equal(t, "evidencias/photo_1.jpg", zr.File[1].Name)
	assert.Equal(t, "evidencias_todas.zip", result.Artifact.FileName)
}

func TestBundleAllFailed(t *testing.T) {
	b := NewBundler(&stubFetcher{}, zap.NewNop())
	_, err := b.Bundle(context.Background(), records(2), "TK-1")
	assert.Error(t, err)
}

func TestBundleEmptyInput(t *testing.T) {
	b := NewBundler(&stubFetcher{}, zap.NewNop())
	result, err := b.Bundle(context.Background(), nil, "TK-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Included)
}
