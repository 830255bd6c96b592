package persistent

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/andreyxaxa/Access-Gate/pkg/s3client"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type BlobRepo struct {
	*s3client.S3Client
	bucket        string
	publicBaseURL string
}

// NewBlobRepo stores objects in bucket. Returned URLs have the form
// publicBaseURL/bucket/name.
func NewBlobRepo(s3c *s3client.S3Client, bucket, publicBaseURL string) *BlobRepo {
	return &BlobRepo{s3c, bucket, publicBaseURL}
}

func (r *BlobRepo) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("BlobRepo - Upload - r.Client.PutObject: %w: %w", errs.ErrBlob, err)
	}

	return PublicURL(r.publicBaseURL, r.bucket, name)
}

func PublicURL(base, bucket, name string) (string, error) {
	u, err := url.JoinPath(base, bucket, name)
	if err != nil {
		return "", fmt.Errorf("BlobRepo - PublicURL - url.JoinPath: %w: %w", errs.ErrBlob, err)
	}

	return u, nil
}
