// File: internal/storage/normalize.go
package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeObjectKey reduces a stored document reference to a plain object
// key within the given bucket. Historical rows reference documents in three
// forms: a bare key, a bucket-prefixed key, and a full public-object URL.
// Unparseable input is an explicit error, never an empty key.
func NormalizeObjectKey(bucket, storedRef string) (string, error) {
	ref := strings.TrimSpace(storedRef)
	if ref == "" {
		return "", fmt.Errorf("stored object reference is empty")
	}
	if bucket == "" {
		return "", fmt.Errorf("bucket name is empty")
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("stored object reference is not a valid URL: %w", err)
		}
		// Public-object URL form: .../object/public/<bucket>/<key>.
		marker := "/object/public/" + bucket + "/"
		if idx := strings.Index(u.Path, marker); idx >= 0 {
			key := u.Path[idx+len(marker):]
			return validateKey(key, ref)
		}
		// Plain S3-style URL: /<bucket>/<key>.
		prefix := "/" + bucket + "/"
		if strings.HasPrefix(u.Path, prefix) {
			return validateKey(strings.TrimPrefix(u.Path, prefix), ref)
		}
		return "", fmt.Errorf("URL %q does not reference bucket %q", ref, bucket)
	}

	ref = strings.TrimPrefix(ref, "/")
	// Bucket-prefixed key form: <bucket>/<key>.
	if strings.HasPrefix(ref, bucket+"/") {
		return validateKey(strings.TrimPrefix(ref, bucket+"/"), storedRef)
	}
	return validateKey(ref, storedRef)
}

func validateKey(key, original string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", fmt.Errorf("stored object reference %q resolves to an empty key", original)
	}
	unescaped, err := url.PathUnescape(key)
	if err != nil {
		return "", fmt.Errorf("stored object reference %q has invalid escaping: %w", original, err)
	}
	return unescaped, nil
}
