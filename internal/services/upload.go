package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"points-feed/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLExpiry = 5 * time.Minute

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// presigner is the part of the S3 presign client the upload service uses
type presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
}

// PresignedRequest is a signed upload target
type PresignedRequest struct {
	URL string
}

type s3Presigner struct {
	client *s3.PresignClient
}

func (p s3Presigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignPutObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedRequest{URL: req.URL}, nil
}

// UploadService signs direct-to-bucket uploads for image posts and backgrounds
type UploadService struct {
	presigner presigner
	bucket    string
}

// S3Options configures the bucket uploads go to
type S3Options struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // custom S3-compatible endpoint, optional
}

// NewUploadService creates an upload service backed by S3
func NewUploadService(ctx context.Context, opts S3Options) (*UploadService, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &UploadService{
		presigner: s3Presigner{client: s3.NewPresignClient(client)},
		bucket:    opts.Bucket,
	}, nil
}

// UploadRequest represents a request to get a pre-signed URL
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// UploadResponse carries the signed URL and the file reference to store on the post
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	File      string `json:"file"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignImage returns a URL the client can PUT an image to. The returned
// File is what goes into an ImagePost's file field.
func (s *UploadService) PresignImage(ctx context.Context, userID string, req UploadRequest) (*UploadResponse, error) {
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}
	ext, ok := allowedImageTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, apperr.InvalidInput("unsupported content type " + req.ContentType)
	}

	key := path.Join("images", userID, uuid.New().String()+ext)

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		File:      key,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}
