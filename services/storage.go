package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vihaanharrison/portfolio-backend/config"
	"github.com/vihaanharrison/portfolio-backend/errs"
)

// MaxUploadBytes is the per-file size cap for image uploads.
const MaxUploadBytes = 10 * 1024 * 1024

// File is an in-memory upload candidate.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 {
	return int64(len(f.Data))
}

// ValidateImage checks a single file against the upload rules: image MIME
// type only, at most 10 MB. Each file is judged independently so a bad
// file never sinks the rest of its batch.
func ValidateImage(f File) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return errs.NewInvalidFieldError(f.Name, fmt.Sprintf("%s is not an image", f.Name))
	}
	if f.Size() > MaxUploadBytes {
		return errs.NewInvalidFieldError(f.Name, fmt.Sprintf("%s is larger than 10MB", f.Name))
	}
	return nil
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
}

// S3Uploader stores files in an S3-compatible bucket.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader builds an uploader from config. Required keys: S3_BUCKET,
// S3_REGION. Optional: S3_ENDPOINT (for S3-compatible stores),
// S3_FORCE_PATH_STYLE (defaults to true when a custom endpoint is set),
// S3_ACCESS_KEY_ID / S3_SECRET_ACCESS_KEY (falls back to the default AWS
// credential chain), S3_PUBLIC_BASE_URL.
func NewS3Uploader(ctx context.Context, cfg map[string]string) (*S3Uploader, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET environment variable is required")
	}
	region := config.GetString(cfg, "S3_REGION", "us-east-1")

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	accessKey := config.GetString(cfg, "S3_ACCESS_KEY_ID", "")
	secretKey := config.GetString(cfg, "S3_SECRET_ACCESS_KEY", "")
	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := config.GetString(cfg, "S3_ENDPOINT", "")
	pathStyle := config.GetBool(cfg, "S3_FORCE_PATH_STYLE", endpoint != "")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	publicBaseURL := config.GetString(cfg, "S3_PUBLIC_BASE_URL", "")
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Upload stores one file under a random key in the projects/ prefix and
// returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, file File) (string, error) {
	ext := filepath.Ext(file.Name)
	key := fmt.Sprintf("projects/%s%s", uuid.New().String(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
	})
	if err != nil {
		return "", errs.NewUploadFailedError(file.Name, err)
	}

	return u.publicBaseURL + "/" + key, nil
}

// UploadAll uploads a batch for a single entry with bounded parallelism,
// preserving input order in the result. A failed upload is logged and
// skipped; the rest of the batch still lands. Entries themselves are still
// persisted strictly one at a time by the caller.
func UploadAll(ctx context.Context, uploader Uploader, files []File) []string {
	if len(files) == 0 {
		return nil
	}

	results := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(4)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := uploader.Upload(ctx, file)
			if err != nil {
				log.Error().Err(err).Str("file", file.Name).Msg("Upload failed, skipping file")
				return nil
			}
			results[i] = url
			return nil
		})
	}
	g.Wait()

	urls := make([]string, 0, len(files))
	for _, url := range results {
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}
