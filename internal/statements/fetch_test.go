package statements

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://bucket/object.csv", "bucket", "object.csv", false},
		{"gs://bucket/nested/path/object.csv", "bucket", "nested/path/object.csv", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"gs:///object.csv", "", "", true},
	}

	for _, tt := range tests {
		bucket, object, err := splitGCSURI(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitGCSURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if bucket != tt.wantBucket || object != tt.wantObject {
			t.Errorf("splitGCSURI(%q) = %q, %q; want %q, %q", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
		}
	}
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	content := []byte("Date,Amount\n2024-01-15,10\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Fetch = %q, want %q", got, content)
	}
}

func TestFetch_MissingLocalFile(t *testing.T) {
	if _, err := Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFetchFromGCS_InvalidURI(t *testing.T) {
	if _, err := FetchFromGCS(context.Background(), "gs://only-bucket"); err == nil {
		t.Error("Expected error for URI without an object path")
	}
}
