package repository

import "context"

// ArtifactRepository defines the interface for the artifact store that
// receives resolved deployment artifacts when AUTO_COMMIT is enabled.
type ArtifactRepository interface {
	UploadFile(ctx context.Context, bucket, key, path string) error
}
