package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePresigner struct {
	input   *s3.PutObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	opts := &s3.PresignOptions{}
	for _, fn := range optFns {
		fn(opts)
	}
	f.expires = opts.Expires
	return &PresignedRequest{URL: "https://bucket.example.com/" + aws.ToString(params.Key) + "?sig=1"}, nil
}

func TestPresignImage(t *testing.T) {
	c := qt.New(t)
	fake := &fakePresigner{}
	svc := &UploadService{presigner: fake, bucket: "media"}

	resp, err := svc.PresignImage(context.Background(), "u1", UploadRequest{Filename: "cat.png", ContentType: "image/png"})
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasPrefix(resp.File, "images/u1/"), qt.IsTrue)
	c.Assert(strings.HasSuffix(resp.File, ".png"), qt.IsTrue)
	c.Assert(resp.ExpiresIn, qt.Equals, 300)
	c.Assert(aws.ToString(fake.input.Bucket), qt.Equals, "media")
	c.Assert(aws.ToString(fake.input.ContentType), qt.Equals, "image/png")
	c.Assert(fake.expires, qt.Equals, 5*time.Minute)

	resp, err = svc.PresignImage(context.Background(), "u1", UploadRequest{Filename: "x"})
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasSuffix(resp.File, ".jpg"), qt.IsTrue)
}

func TestPresignImageErrors(t *testing.T) {
	c := qt.New(t)

	svc := &UploadService{presigner: &fakePresigner{}, bucket: "media"}
	_, err := svc.PresignImage(context.Background(), "u1", UploadRequest{ContentType: "application/pdf"})
	c.Assert(err, qt.ErrorMatches, "unsupported content type application/pdf")

	svc = &UploadService{presigner: &fakePresigner{err: errors.New("no credentials")}, bucket: "media"}
	_, err = svc.PresignImage(context.Background(), "u1", UploadRequest{ContentType: "image/gif"})
	c.Assert(err, qt.ErrorMatches, "failed to generate pre-signed URL: no credentials")
}
