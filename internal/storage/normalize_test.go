// File: internal/storage/normalize_test.go
package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeObjectKey(t *testing.T) {
	const bucket = "verification-documents"

	tests := []struct {
		name      string
		storedRef string
		want      string
	}{
		{
			name:      "bare key",
			storedRef: "user-123/front.jpg",
			want:      "user-123/front.jpg",
		},
		{
			name:      "bare key with leading slash",
			storedRef: "/user-123/front.jpg",
			want:      "user-123/front.jpg",
		},
		{
			name:      "bucket-prefixed key",
			storedRef: "verification-documents/user-123/front.jpg",
			want:      "user-123/front.jpg",
		},
		{
			name:      "public object URL",
			storedRef: "https://abc.supabase.co/storage/v1/object/public/verification-documents/user-123/front.jpg",
			want:      "user-123/front.jpg",
		},
		{
			name:      "plain S3 style URL",
			storedRef: "https://s3.us-east-1.amazonaws.com/verification-documents/user-123/front.jpg",
			want:      "user-123/front.jpg",
		},
		{
			name:      "percent escaped key is decoded",
			storedRef: "verification-documents/user-123/front%20side.jpg",
			want:      "user-123/front side.jpg",
		},
		{
			name:      "surrounding whitespace is trimmed",
			storedRef: "  user-123/front.jpg  ",
			want:      "user-123/front.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeObjectKey(bucket, tt.storedRef)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeObjectKeyErrors(t *testing.T) {
	const bucket = "verification-documents"

	tests := []struct {
		name      string
		bucket    string
		storedRef string
	}{
		{name: "empty reference", bucket: bucket, storedRef: ""},
		{name: "whitespace only reference", bucket: bucket, storedRef: "   "},
		{name: "empty bucket", bucket: "", storedRef: "user-123/front.jpg"},
		{name: "URL for a different bucket", bucket: bucket, storedRef: "https://abc.supabase.co/storage/v1/object/public/avatars/user-123/face.jpg"},
		{name: "URL resolving to empty key", bucket: bucket, storedRef: "https://abc.supabase.co/storage/v1/object/public/verification-documents/"},
		{name: "bucket prefix with no key", bucket: bucket, storedRef: "verification-documents/"},
		{name: "invalid percent escaping", bucket: bucket, storedRef: "user-123/front%zz.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeObjectKey(tt.bucket, tt.storedRef)
			require.Error(t, err)
			assert.Empty(t, got)
		})
	}
}
