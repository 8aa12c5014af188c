package artifact

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/billqhan/rfp-deploy/internal/domain/repository"
)

// S3Client defines the S3 operations used by the artifact store.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ArtifactRepository implementa o ArtifactRepository sobre um bucket S3.
type S3ArtifactRepository struct {
	client S3Client
}

// NewS3ArtifactRepository cria uma nova implementação do ArtifactRepository.
func NewS3ArtifactRepository(client S3Client) repository.ArtifactRepository {
	return &S3ArtifactRepository{client: client}
}

// UploadFile envia um arquivo local para o bucket de artefatos.
func (r *S3ArtifactRepository) UploadFile(ctx context.Context, bucket, key, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening artifact %s: %w", path, err)
	}
	defer file.Close()

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading artifact to s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
