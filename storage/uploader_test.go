package storage

import (
	"context"
	"strings"
	"testing"
)

func TestMemoryUploaderPublicURL(t *testing.T) {
	u, err := NewMemoryUploader("https://cdn.example.com/exports")
	if err != nil {
		t.Fatalf("NewMemoryUploader: %v", err)
	}
	res, err := u.Upload(context.Background(), "standings/a.json", "application/json", strings.NewReader(`{"ok":true}`))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if want := "https://cdn.example.com/exports/standings/a.json"; res.Location != want {
		t.Fatalf("expected %q, got %q", want, res.Location)
	}
	data, ok := u.Object("standings/a.json")
	if !ok || string(data) != `{"ok":true}` {
		t.Fatalf("unexpected stored object %q (found=%v)", data, ok)
	}
	if got := u.GetPublicURL("/x.json"); got != "https://cdn.example.com/exports/x.json" {
		t.Fatalf("leading slash not trimmed: %q", got)
	}
	if got := u.GetPublicURL(""); got != "" {
		t.Fatalf("expected empty URL for empty key, got %q", got)
	}
}

func TestR2ConfigEnabled(t *testing.T) {
	cfg := R2Config{AccountID: "a", AccessKeyID: "b", SecretAccessKey: "c", BucketName: "d"}
	if cfg.Enabled() {
		t.Fatalf("expected disabled without public base URL")
	}
	cfg.PublicBaseURL = "https://pub.example.com"
	if !cfg.Enabled() {
		t.Fatalf("expected enabled")
	}
}
