package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

type fakePutter struct {
	key         string
	contentType string
	body        string
	err         error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = *in.Key
	f.contentType = *in.ContentType
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3ArchivePut(t *testing.T) {
	putter := &fakePutter{}
	a := newS3Archive(putter, "pantry", "https://cdn.example.com/", logger.New(logger.LevelOff, nil))

	url, err := a.Put(context.Background(), domain.Image{Data: []byte("jpegbytes"), MimeType: "image/jpeg"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(putter.key, "photos/") || !strings.HasSuffix(putter.key, ".jpg") {
		t.Fatalf("unexpected key %q", putter.key)
	}
	if putter.contentType != "image/jpeg" || putter.body != "jpegbytes" {
		t.Fatalf("unexpected upload: %+v", putter)
	}
	if url != "https://cdn.example.com/"+putter.key {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestS3ArchiveWithoutBaseURL(t *testing.T) {
	putter := &fakePutter{}
	a := newS3Archive(putter, "pantry", "", logger.New(logger.LevelOff, nil))

	url, err := a.Put(context.Background(), domain.Image{Data: []byte("x"), MimeType: "image/png"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "s3://pantry/"+putter.key {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestS3ArchiveError(t *testing.T) {
	a := newS3Archive(&fakePutter{err: errors.New("denied")}, "pantry", "", logger.New(logger.LevelOff, nil))
	if _, err := a.Put(context.Background(), domain.Image{Data: []byte("x")}); err == nil {
		t.Fatal("expected error")
	}
}
