package entity

import "time"

// ReportMetadata carries the descriptive context of an evidence report.
// Purely informational; it has no identity beyond a single render call.
type ReportMetadata struct {
	TicketNumber string `json:"ticket_number,omitempty"`
	TicketTitle  string `json:"ticket_title,omitempty"`
	ClientName   string `json:"client_name,omitempty"`
	// Description is authored as a constrained HTML subset: <p>, <br>,
	// <strong>/<b>, and <ul>/<li> with one level of nesting.
	Description string `json:"description,omitempty"`
	// Flow-document rendering preferences
	BulletGlyph string `json:"bullet_glyph,omitempty"`
	TextColor   string `json:"text_color,omitempty"` // hex without '#'
}

// TicketLabel returns the ticket number or the catch-all label used in
// evidence report filenames
func (m ReportMetadata) TicketLabel() string {
	if m.TicketNumber != "" {
		return m.TicketNumber
	}
	return "todas"
}

// RenderedArtifact is the binary output of one render invocation.
// It is either streamed to the client for download or handed to the
// export store, never both partially.
type RenderedArtifact struct {
	Data     []byte
	FileName string
	MimeType string
}

// Size returns the artifact size in bytes
func (a *RenderedArtifact) Size() int64 {
	return int64(len(a.Data))
}

// ExportRecord is the metadata row written when a rendered artifact is
// persisted through the export store instead of downloaded directly
type ExportRecord struct {
	ID          string    `json:"id"`
	ReportType  string    `json:"report_type"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
	GeneratedBy string    `json:"generated_by"`
	Description string    `json:"description,omitempty"`
	Metadata    string    `json:"metadata,omitempty"` // arbitrary JSON blob
	CreatedAt   time.Time `json:"created_at"`
}
