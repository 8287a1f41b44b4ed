package evidence

import "time"

// Evidence is one uploaded file backing a file-typed field. The FileName is
// what field values reference; the StorageKey locates the bytes.
type Evidence struct {
	ID         string
	SessionID  string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	CreatedAt  time.Time
}
