package evidence

import "time"

// EvidenceResponse is the outward-facing representation of uploaded evidence.
type EvidenceResponse struct {
	EvidenceID string    `json:"evidenceId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(ev Evidence) EvidenceResponse {
	return EvidenceResponse{
		EvidenceID: ev.ID,
		FileName:   ev.FileName,
		MimeType:   ev.MimeType,
		SizeBytes:  ev.SizeBytes,
		UploadedAt: ev.CreatedAt,
	}
}
