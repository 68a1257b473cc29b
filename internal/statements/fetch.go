// Package statements fetches raw statement bytes from their source: a local
// file path or a gs:// object URI.
package statements

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Fetch returns the statement bytes behind uri. URIs with a gs:// scheme are
// read from Google Cloud Storage; anything else is treated as a local path.
func Fetch(ctx context.Context, uri string, opts ...option.ClientOption) ([]byte, error) {
	if strings.HasPrefix(uri, "gs://") {
		return FetchFromGCS(ctx, uri, opts...)
	}

	data, err := os.ReadFile(uri)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading local file: %w", err)
	}
	return data, nil
}

// FetchFromGCS downloads the object behind a gs:// URI.
func FetchFromGCS(ctx context.Context, gcsURI string, opts ...option.ClientOption) ([]byte, error) {
	bucket, object, err := splitGCSURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: open object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: read object: %w", err)
	}

	return data, nil
}

// splitGCSURI splits "gs://bucket/path/to/object" into bucket and object.
func splitGCSURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("splitGCSURI: invalid GCS URI %q", uri)
	}
	return parts[0], parts[1], nil
}
