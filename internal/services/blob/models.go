package blob

import "time"

// BlobInfo is what a Store reports for each blob it enumerates.
// Optional properties are nil when the backend does not know them.
type BlobInfo struct {
	Name         string
	Size         int64
	LastModified *time.Time
	ContentType  *string
}

// BlobDescriptor is the JSON projection of a BlobInfo in the /list response.
type BlobDescriptor struct {
	Name         string  `json:"name"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified"`
	ContentType  *string `json:"content_type"`
}

// HealthResponse is returned by GET /health when the container is reachable.
type HealthResponse struct {
	Status         string `json:"status"`
	StorageAccount string `json:"storage_account"`
	Container      string `json:"container"`
	Authentication string `json:"authentication"`
	Timestamp      string `json:"timestamp"`
}

// ListResponse is returned by GET /list. BlobCount always equals len(Blobs).
type ListResponse struct {
	Container string           `json:"container"`
	BlobCount int              `json:"blob_count"`
	Blobs     []BlobDescriptor `json:"blobs"`
	Timestamp string           `json:"timestamp"`
}

// UploadResponse is returned by POST /upload on success.
type UploadResponse struct {
	Status    string `json:"status"`
	BlobName  string `json:"blob_name"`
	Container string `json:"container"`
	Size      int    `json:"size"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the failure envelope shared by every JSON route.
// Status is omitted for routes whose failure body carries none (/list).
type ErrorResponse struct {
	Status    string `json:"status,omitempty"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// isoformat renders t in UTC as YYYY-MM-DDTHH:MM:SS[.ffffff] with no zone
// designator. The fraction is dropped when the microsecond part is zero.
func isoformat(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.000000")
}

// isoformatUTCOffset is isoformat with an explicit +00:00 offset, used for
// backend-reported times.
func isoformatUTCOffset(t time.Time) string {
	return isoformat(t) + "+00:00"
}

// describe projects a BlobInfo into its response form.
func describe(info BlobInfo) BlobDescriptor {
	d := BlobDescriptor{
		Name: info.Name,
		Size: info.Size,
	}
	if info.LastModified != nil {
		s := isoformatUTCOffset(*info.LastModified)
		d.LastModified = &s
	}
	if info.ContentType != nil && *info.ContentType != "" {
		ct := *info.ContentType
		d.ContentType = &ct
	}
	return d
}
