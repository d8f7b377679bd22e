package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/invois/backend/internal/infrastructure/config"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *infraconfig.StorageConfig
	}{
		{"nil config", nil},
		{"missing bucket", &infraconfig.StorageConfig{AccessKeyID: "key", SecretAccessKey: "secret"}},
		{"missing access key", &infraconfig.StorageConfig{Bucket: "b", SecretAccessKey: "secret"}},
		{"missing secret key", &infraconfig.StorageConfig{Bucket: "b", AccessKeyID: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewS3ObjectStorage(tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, store)
		})
	}
}

func TestNewS3ObjectStorage_Defaults(t *testing.T) {
	cfg := &infraconfig.StorageConfig{
		Bucket:          "invois-assets",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Endpoint:        "minio.local:9000",
	}

	store, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)

	assert.Equal(t, "invois-assets", store.GetBucket())
	assert.Equal(t, 15*time.Minute, store.presignExpiry)
}
