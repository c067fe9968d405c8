package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestStorage_UploadDownloadRoundTrip(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx := context.Background()

	if err := s.Upload(ctx, "abc.wav", strings.NewReader("RIFFdata")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	ok, err := s.Exists(ctx, "abc.wav")
	if err != nil || !ok {
		t.Fatalf("exists: ok=%v err=%v", ok, err)
	}

	r, err := s.Download(ctx, "abc.wav")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "RIFFdata" {
		t.Errorf("round trip altered data: %q", data)
	}
}

func TestStorage_ExistsMissing(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	ok, err := s.Exists(context.Background(), "nope.wav")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Error("expected missing")
	}
}

func TestStorage_DeleteIsIdempotent(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx := context.Background()

	if err := s.Upload(ctx, "x.wav", strings.NewReader("d")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := s.Delete(ctx, "x.wav"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "x.wav"); err != nil {
		t.Errorf("second delete should be nil, got %v", err)
	}
}

func TestStorage_URL(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	u, err := s.URL(context.Background(), "a.wav")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, "/a.wav") {
		t.Errorf("unexpected url %q", u)
	}
}
