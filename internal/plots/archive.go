package plots

import (
	"bytes"
	"context"
	"path"
	"strings"

	"agri-shield/plot-portal/plot-portal-backend/pkg/storage"
)

const kmlContentType = "application/vnd.google-earth.kml+xml"

// S3Archiver stores the KML of saved lands under <prefix>/lands/<land_id>/map.kml
type S3Archiver struct {
	client storage.S3Client
	bucket string
	prefix string
}

func NewS3Archiver(client storage.S3Client, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Key returns the object key for a land.
func (a *S3Archiver) Key(landID string) string {
	return path.Join(a.prefix, "lands", landID, "map.kml")
}

func (a *S3Archiver) ArchiveMap(ctx context.Context, landID string, kml []byte) (string, error) {
	key := a.Key(landID)
	if err := a.client.Upload(ctx, a.bucket, key, kmlContentType, bytes.NewReader(kml)); err != nil {
		return "", err
	}
	return key, nil
}
