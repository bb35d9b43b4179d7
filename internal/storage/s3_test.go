package storage

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "synctech", "")
	if err != nil || c != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", c, err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("http://minio:9000", "us-east-1", "key", "secret", "", ""); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("0b6f3c7e-8a59-4d8f-9b0e-2f1d5c4a3b21")
	if got := objectKey(FolderPortfolio, id, ".png"); got != "portfolio/0b6f3c7e-8a59-4d8f-9b0e-2f1d5c4a3b21.png" {
		t.Errorf("objectKey: got %q", got)
	}
	if got := objectKey(FolderTestimonials, id, ".jpg"); got != "testimonials/0b6f3c7e-8a59-4d8f-9b0e-2f1d5c4a3b21.jpg" {
		t.Errorf("objectKey: got %q", got)
	}
}

func TestFileURLAndKeyFromURL(t *testing.T) {
	direct, err := New("http://minio:9000/", "us-east-1", "key", "secret", "synctech", "")
	if err != nil {
		t.Fatal(err)
	}
	cdn, err := New("http://minio:9000", "us-east-1", "key", "secret", "synctech", "https://cdn.synctech.dev/")
	if err != nil {
		t.Fatal(err)
	}

	if got := direct.FileURL("portfolio/a.png"); got != "http://minio:9000/synctech/portfolio/a.png" {
		t.Errorf("direct FileURL: got %q", got)
	}
	if got := cdn.FileURL("portfolio/a.png"); got != "https://cdn.synctech.dev/portfolio/a.png" {
		t.Errorf("cdn FileURL: got %q", got)
	}

	tests := []struct {
		client *Client
		url    string
		want   string
		ok     bool
	}{
		{direct, "http://minio:9000/synctech/portfolio/a.png", "portfolio/a.png", true},
		{cdn, "https://cdn.synctech.dev/testimonials/b.jpg", "testimonials/b.jpg", true},
		{cdn, "http://minio:9000/synctech/testimonials/b.jpg", "testimonials/b.jpg", true},
		{direct, "https://images.example.com/photo.jpg", "", false},
		{direct, "", "", false},
	}
	for _, tt := range tests {
		got, ok := tt.client.keyFromURL(tt.url)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keyFromURL(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSniffImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	ct, ext, err := sniffImage(png)
	if err != nil || ct != "image/png" || ext != ".png" {
		t.Errorf("png: got (%q, %q, %v)", ct, ext, err)
	}

	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	if _, ext, err := sniffImage(jpeg); err != nil || ext != ".jpg" {
		t.Errorf("jpeg: got (%q, %v)", ext, err)
	}

	if _, _, err := sniffImage([]byte("<html><script>alert(1)</script>")); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("html: expected ErrUnsupportedImage, got %v", err)
	}
}
