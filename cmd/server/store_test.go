package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
	"github.com/iliyamo/educare-hub/internal/repository/memrepo"
)

func TestOpenStoreMemory(t *testing.T) {
	s, err := openStore(context.Background(), config.StoreConfig{Driver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &memrepo.Store{}, s)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), config.StoreConfig{Driver: "sqlite"}, zap.NewNop())
	assert.Error(t, err)
}
