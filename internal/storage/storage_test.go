package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"folio/internal/models"
)

type fakeS3 struct {
	objects map[string][]byte
	failDel bool
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.failDel {
		return nil, errors.New("access denied")
	}
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type fakeIndex map[string]*models.Media

func (f fakeIndex) DeleteByKey(_ context.Context, key string) (*models.Media, error) {
	m := f[key]
	delete(f, key)
	return m, nil
}

func TestFileURLAndExtractKey(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		url       string
		wantURL   string
	}{
		{"path style", "", "", "https://s3.example.com/folio/img/a.png"},
		{"cdn", "https://cdn.example.com/", "", "https://cdn.example.com/img/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(newFakeS3(), "folio", "https://s3.example.com/", tt.publicURL)
			got := c.FileURL("img/a.png")
			if got != tt.wantURL {
				t.Fatalf("FileURL = %q, want %q", got, tt.wantURL)
			}
			key, ok := c.ExtractKey(got)
			if !ok || key != "img/a.png" {
				t.Errorf("ExtractKey(%q) = %q, %v", got, key, ok)
			}
		})
	}

	c := newClient(newFakeS3(), "folio", "https://s3.example.com", "")
	if _, ok := c.ExtractKey("https://elsewhere.example.com/img/a.png"); ok {
		t.Error("foreign URL should not resolve to a key")
	}
	if _, ok := c.ExtractKey("https://s3.example.com/folio/"); ok {
		t.Error("bucket root should not resolve to a key")
	}
}

func TestUploadDownload(t *testing.T) {
	c := newClient(newFakeS3(), "folio", "https://s3.example.com", "")
	ctx := context.Background()

	data := []byte("png bytes")
	if err := c.Upload(ctx, "img/a.png", "image/png", bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	got, err := c.Download(ctx, "img/a.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Download = %q", got)
	}
}

func TestAssetsDeleteByURL(t *testing.T) {
	api := newFakeS3()
	api.objects["img/a.png"] = []byte("a")
	api.objects["img/a_thumb.jpg"] = []byte("t")
	thumb := "img/a_thumb.jpg"
	index := fakeIndex{"img/a.png": {S3Key: "img/a.png", ThumbS3Key: &thumb}}

	c := newClient(api, "folio", "https://s3.example.com", "")
	a := NewAssets(c, index)

	if err := a.DeleteByURL(context.Background(), c.FileURL("img/a.png")); err != nil {
		t.Fatalf("DeleteByURL: %v", err)
	}
	if len(api.objects) != 0 {
		t.Errorf("objects left: %v", api.objects)
	}
	if len(index) != 0 {
		t.Error("metadata row should be removed")
	}
}

func TestAssetsDeleteByURLIgnoresForeignURLs(t *testing.T) {
	api := newFakeS3()
	api.failDel = true
	a := NewAssets(newClient(api, "folio", "https://s3.example.com", ""), fakeIndex{})

	if err := a.DeleteByURL(context.Background(), "https://images.example.org/x.png"); err != nil {
		t.Errorf("foreign URL: %v", err)
	}
	if err := a.DeleteByURL(context.Background(), ""); err != nil {
		t.Errorf("empty URL: %v", err)
	}
	if err := NewAssets(nil, nil).DeleteByURL(context.Background(), "https://s3.example.com/folio/a.png"); err != nil {
		t.Errorf("nil client: %v", err)
	}
}

func TestAssetsDeleteByURLError(t *testing.T) {
	api := newFakeS3()
	api.failDel = true
	c := newClient(api, "folio", "https://s3.example.com", "")

	if err := NewAssets(c, fakeIndex{}).DeleteByURL(context.Background(), c.FileURL("img/a.png")); err == nil {
		t.Error("expected error when the object delete fails")
	}
}
