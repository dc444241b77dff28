package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gosimple/slug"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores tournament archives.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}

// ArchiveKey builds the object key of a finished tournament's summary.
func ArchiveKey(tournamentSlug string, finishedAt time.Time) string {
	return fmt.Sprintf("archives/%s/%s.json", slug.Make(tournamentSlug), finishedAt.UTC().Format("20060102T150405Z"))
}
