// Package storage validates product images and uploads them to S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	MinWidth, MinHeight = 400, 400
	MaxWidth, MaxHeight = 1200, 1200
	MaxImageSize        = 3145728
)

var (
	ErrImageTooLarge     = errors.New("image exceeds 3MB")
	ErrImageTooSmall     = fmt.Errorf("image resolution is below %dx%d", MinWidth, MinHeight)
	ErrImageTooBig       = fmt.Errorf("image resolution is above %dx%d", MaxWidth, MaxHeight)
	ErrUnsupportedFormat = errors.New("image must be a JPEG or PNG")
)

// ValidateImage checks size and resolution and rewinds r to the start.
func ValidateImage(r io.ReadSeeker, size int64) error {
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if cfg.Width < MinWidth || cfg.Height < MinHeight {
		return ErrImageTooSmall
	}
	if cfg.Width > MaxWidth || cfg.Height > MaxHeight {
		return ErrImageTooBig
	}
	_, err = r.Seek(0, io.SeekStart)
	return err
}

type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type S3Uploader struct {
	bucket   string
	uploader *manager.Uploader
}

// NewS3Uploader loads AWS credentials from the default provider chain.
func NewS3Uploader(ctx context.Context, bucket string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return &S3Uploader{
		bucket:   bucket,
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	result, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return result.Location, nil
}
