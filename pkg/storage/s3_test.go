package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bussin-exchange/market-middleware/pkg/config"
)

func newTestClient(endpoint string) *Client {
	return NewClient(config.StorageConfig{
		Endpoint:        endpoint,
		Region:          "us-east-005",
		Bucket:          "bussin-assets",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	})
}

func TestImageExtension(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		def         string
		want        string
	}{
		{"png", "image/png", "jpg", "png"},
		{"jpeg", "image/jpeg", "jpg", "jpeg"},
		{"webp", "image/webp", "png", "webp"},
		{"gif", "image/gif", "jpg", "gif"},
		{"uppercase subtype", "image/PNG", "jpg", "png"},
		{"svg falls back", "image/svg+xml", "jpg", "jpg"},
		{"non image falls back", "application/pdf", "png", "png"},
		{"missing subtype falls back", "image", "jpg", "jpg"},
		{"empty falls back", "", "png", "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := imageExtension(tt.contentType, tt.def); got != tt.want {
				t.Fatalf("imageExtension(%q, %q) = %q, want %q", tt.contentType, tt.def, got, tt.want)
			}
		})
	}
}

func TestUploadProfilePicture(t *testing.T) {
	var gotPath, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	key, err := c.UploadProfilePicture(context.Background(), "42", []byte("fake image bytes"), "image/png")
	if err != nil {
		t.Fatalf("UploadProfilePicture() failed: %v", err)
	}
	if key != "avatars/42.png" {
		t.Fatalf("key mismatch: got %q want %q", key, "avatars/42.png")
	}
	if gotPath != "/bussin-assets/avatars/42.png" {
		t.Fatalf("request path mismatch: got %q", gotPath)
	}
	if gotContentType != "image/png" {
		t.Fatalf("content type mismatch: got %q", gotContentType)
	}
}

func TestUploadProfilePictureDefaultsToJpg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	key, err := c.UploadProfilePicture(context.Background(), "7", []byte("data"), "application/octet-stream")
	if err != nil {
		t.Fatalf("UploadProfilePicture() failed: %v", err)
	}
	if key != "avatars/7.jpg" {
		t.Fatalf("key mismatch: got %q want %q", key, "avatars/7.jpg")
	}
}

func TestUploadCoinIcon(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	// Symbols are uppercase in the database but keys are lowercase.
	key, err := c.UploadCoinIcon(context.Background(), "DOGE", []byte("icon"), "image/webp")
	if err != nil {
		t.Fatalf("UploadCoinIcon() failed: %v", err)
	}
	if key != "coins/doge.webp" {
		t.Fatalf("key mismatch: got %q want %q", key, "coins/doge.webp")
	}
	if gotPath != "/bussin-assets/coins/doge.webp" {
		t.Fatalf("request path mismatch: got %q", gotPath)
	}

	key, err = c.UploadCoinIcon(context.Background(), "MEME", []byte("icon"), "text/plain")
	if err != nil {
		t.Fatalf("UploadCoinIcon() failed: %v", err)
	}
	if key != "coins/meme.png" {
		t.Fatalf("key mismatch: got %q want %q", key, "coins/meme.png")
	}
}

func TestUploadSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.UploadProfilePicture(context.Background(), "13", []byte("data"), "image/png")
	if err == nil {
		t.Fatalf("expected upload to fail")
	}
	if !strings.Contains(err.Error(), "avatars/13.png") {
		t.Fatalf("expected error to name the key, got: %v", err)
	}
}

func TestDeleteObject(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.DeleteObject(context.Background(), "avatars/42.png"); err != nil {
		t.Fatalf("DeleteObject() failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("method mismatch: got %s", gotMethod)
	}
	if gotPath != "/bussin-assets/avatars/42.png" {
		t.Fatalf("request path mismatch: got %q", gotPath)
	}
}

func TestGeneratePresignedUploadURL(t *testing.T) {
	// Presigning is pure local computation, no server needed.
	c := newTestClient("https://s3.example.com")

	signed, err := c.GeneratePresignedUploadURL(context.Background(), "avatars/42.png", "image/png")
	if err != nil {
		t.Fatalf("GeneratePresignedUploadURL() failed: %v", err)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("failed to parse presigned url: %v", err)
	}
	if u.Path != "/bussin-assets/avatars/42.png" {
		t.Fatalf("path mismatch: got %q", u.Path)
	}
	q := u.Query()
	if got := q.Get("X-Amz-Expires"); got != "3600" {
		t.Fatalf("expiry mismatch: got %s want 3600", got)
	}
	if q.Get("X-Amz-Signature") == "" {
		t.Fatalf("expected url to be signed")
	}
	if !strings.Contains(q.Get("X-Amz-Credential"), "test-access-key") {
		t.Fatalf("expected credential to reference the access key, got %q", q.Get("X-Amz-Credential"))
	}
}

func TestGenerateDownloadURL(t *testing.T) {
	c := newTestClient("https://s3.example.com")

	signed, err := c.GenerateDownloadURL(context.Background(), "coins/doge.webp")
	if err != nil {
		t.Fatalf("GenerateDownloadURL() failed: %v", err)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("failed to parse presigned url: %v", err)
	}
	if u.Path != "/bussin-assets/coins/doge.webp" {
		t.Fatalf("path mismatch: got %q", u.Path)
	}
	if got := u.Query().Get("X-Amz-Expires"); got != "3600" {
		t.Fatalf("expiry mismatch: got %s want 3600", got)
	}
}
