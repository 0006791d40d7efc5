package redis_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/proofboard/proofboard/internal/redis"
	"github.com/proofboard/proofboard/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManagerReusesClients(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	host, portStr, found := strings.Cut(mr.Addr(), ":")
	require.True(t, found)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	manager := redis.NewManager(&config.Redis{Host: host, Port: port}, zap.NewNop())
	t.Cleanup(manager.Close)

	first, err := manager.GetClient(redis.ReviewSessionDBIndex)
	require.NoError(t, err)

	second, err := manager.GetClient(redis.ReviewSessionDBIndex)
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, manager.Ping(t.Context()))
}
