package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/errs"
)

// ObjectUploader is satisfied by *manager.Uploader.
type ObjectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type ImageStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	KeyPrefix     string
	PublicBaseURL string
}

// ImageStore puts admin-uploaded images into S3 and returns their URL.
type ImageStore struct {
	uploader ObjectUploader
	cfg      ImageStoreConfig
}

func NewImageStore(uploader ObjectUploader, cfg ImageStoreConfig) *ImageStore {
	return &ImageStore{uploader: uploader, cfg: cfg}
}

// NewS3ImageStore builds the S3 client from the default credential chain.
// A custom endpoint enables S3-compatible services.
func NewS3ImageStore(ctx context.Context, cfg ImageStoreConfig) (*ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, errs.NewEnvironmentVariableError("S3_BUCKET")
	}

	awsConfig, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewImageStore(manager.NewUploader(client), cfg), nil
}

type StoredImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Put uploads body under a fresh key keeping the original extension.
func (s *ImageStore) Put(ctx context.Context, filename, contentType string, body io.Reader) (StoredImage, error) {
	key := s.objectKey(filename)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return StoredImage{}, errs.NewUpstreamError("s3", err)
	}
	return StoredImage{Key: key, URL: s.publicURL(key)}, nil
}

func (s *ImageStore) objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := uuid.NewString() + ext
	if s.cfg.KeyPrefix == "" {
		return name
	}
	return s.cfg.KeyPrefix + "/" + name
}

func (s *ImageStore) publicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.cfg.PublicBaseURL != "" {
		return s.cfg.PublicBaseURL + "/" + escaped
	}
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, escaped)
}
