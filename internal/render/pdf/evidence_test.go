package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// stubFetcher serves canned bytes per URL and fails everything else
type stubFetcher struct {
	files map[string][]byte
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if data, ok := f.files[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("fetch %s failed with status 404", url)
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func evidenceFixtures(t *testing.T) ([]entity.EvidenceRecord, *stubFetcher) {
	t.Helper()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	records := []entity.EvidenceRecord{
		{ID: 1, FileURL: "https://files.test/a.jpg", FileName: "a.jpg", FileType: "image/jpeg", UploadedBy: "tecnico1", CreatedAt: base},
		{ID: 2, FileURL: "https://files.test/b.jpg", FileName: "b.jpg", FileType: "image/jpeg", Description: "Unidad condensadora", UploadedBy: "tecnico1", CreatedAt: base.Add(time.Minute)},
		{ID: 3, FileURL: "https://files.test/c.jpg", FileName: "c.jpg", FileType: "image/jpeg", ManualRotation: 90, CreatedAt: base.Add(2 * time.Minute)},
		{ID: 4, FileURL: "https://files.test/v.mp4", FileName: "v.mp4", FileType: "video/mp4", Description: "Arranque del equipo", UploadedBy: "tecnico2", CreatedAt: base.Add(3 * time.Minute)},
	}
	fetcher := &stubFetcher{files: map[string][]byte{
		"https://files.test/a.jpg": jpegBytes(t, 320, 240),
		"https://files.test/b.jpg": jpegBytes(t, 240, 320),
		"https://files.test/c.jpg": jpegBytes(t, 300, 200),
		"https://files.test/v.mp4": []byte("not used"),
	}}
	return records, fetcher
}

func TestEvidenceRendererRender(t *testing.T) {
	records, fetcher := evidenceFixtures(t)
	r := NewEvidenceRenderer(fetcher, zap.NewNop())

	meta := entity.ReportMetadata{
		TicketNumber: "TK-42",
		TicketTitle:  "Mantenimiento A/C",
		ClientName:   "ACME S.R.L.",
		Description:  "<p>Trabajo realizado: <strong>cambio de filtros</strong></p><ul><li>Limpieza</li><li>Prueba</li></ul>",
	}

	artifact, err := r.Render(context.Background(), records, meta, entity.DefaultCompanyInfo(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", artifact.MimeType)
	assert.Contains(t, artifact.FileName, "Reporte_Evidencias_TK42_")
}

func TestEvidenceRendererFailedPhotoGetsPlaceholder(t *testing.T) {
	records, fetcher := evidenceFixtures(t)
	delete(fetcher.files, "https://files.test/b.jpg")
	r := NewEvidenceRenderer(fetcher, zap.NewNop())

	artifact, err := r.Render(context.Background(), records, entity.ReportMetadata{}, entity.DefaultCompanyInfo(), nil)
	require.NoError(t, err, "a single failed photo must not abort the report")
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
	assert.Equal(t, "Reporte_Evidencias_General_"+time.Now().Format("2006-01-02")+".pdf", artifact.FileName)
}

func TestEvidenceRendererEmptyList(t *testing.T) {
	r := NewEvidenceRenderer(&stubFetcher{}, zap.NewNop())
	artifact, err := r.Render(context.Background(), nil, entity.ReportMetadata{}, entity.DefaultCompanyInfo(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Data)
}
