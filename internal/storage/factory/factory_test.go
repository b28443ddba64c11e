package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmstore/internal/config"
)

func TestNew_Memory(t *testing.T) {
	cfg := &config.AppConfig{Storage: config.StorageConfig{Type: "memory"}}

	s, err := New(cfg)

	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NoError(t, s.Health(context.Background()))
	assert.NoError(t, s.Close())
}

func TestNew_UnknownType(t *testing.T) {
	cfg := &config.AppConfig{Storage: config.StorageConfig{Type: "cassandra"}}

	s, err := New(cfg)

	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "unknown storage type")
}

func TestNew_JSONMissingCredentials(t *testing.T) {
	cfg := &config.AppConfig{
		Storage: config.StorageConfig{Type: "json"},
		MinIO:   config.MinIOConfig{Endpoint: "localhost:9000"},
	}

	s, err := New(cfg)

	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "credentials")
}

func TestNew_JSONMissingEndpoint(t *testing.T) {
	cfg := &config.AppConfig{Storage: config.StorageConfig{Type: "json"}}

	s, err := New(cfg)

	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "endpoint")
}

func TestNew_PostgresInvalidConfig(t *testing.T) {
	cfg := &config.AppConfig{Storage: config.StorageConfig{Type: "postgres"}}

	s, err := New(cfg)

	require.Error(t, err)
	assert.Nil(t, s)
}
