package consumer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adjust/rmq/v5"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndStatsHandlers(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	connection, err := rmq.OpenConnectionWithRedisClient("consumer-test", client, nil)
	require.NoError(t, err)
	defer func() { <-connection.StopAllConsuming() }()

	queue, err := connection.OpenQueue("booking-events")
	require.NoError(t, err)
	require.NoError(t, queue.Publish("hello"))

	recorder := httptest.NewRecorder()
	NewHealthHandler(connection).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "OK", recorder.Body.String())

	recorder = httptest.NewRecorder()
	NewStatsHandler(connection).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/booking-events/stats", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "booking-events")
}
