package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/mocks"
)

func testNotification() domain.PushNotification {
	return domain.PushNotification{
		ID:          "0b8f5c1e-7a55-4b8e-9d7c-3c0f2e0f9a11",
		RecipientID: "user-1",
		App:         domain.AppSupervisor,
		Payload:     domain.PushPayload{Title: "New project", Body: "A project is waiting for review"}.WithDefaults(),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestDeliver_Publishes(t *testing.T) {
	pub := mocks.NewMockPushPublisher()
	relay := NewRelay(nil, "", pub, zap.NewNop())

	n := testNotification()
	raw, err := json.Marshal(n)
	require.NoError(t, err)

	done, err := relay.deliver(context.Background(), n.ID, raw)
	require.NoError(t, err)
	assert.True(t, done)

	published := pub.GetPublished()
	require.Len(t, published, 1)
	assert.Equal(t, "user-1", published[0].RecipientID)
	assert.Equal(t, "New project", published[0].Payload.Title)
}

func TestDeliver_InvalidPayloadIsDropped(t *testing.T) {
	pub := mocks.NewMockPushPublisher()
	relay := NewRelay(nil, "", pub, zap.NewNop())

	done, err := relay.deliver(context.Background(), "bad", []byte("{not json"))
	require.NoError(t, err)
	assert.True(t, done, "poison rows must be marked processed")
	assert.Equal(t, 0, pub.PublishCallCount)
}

func TestDeliver_PublishFailureKeepsRow(t *testing.T) {
	pub := mocks.NewMockPushPublisher()
	pub.PublishError = errors.New("channel closed")
	relay := NewRelay(nil, "", pub, zap.NewNop())

	raw, err := json.Marshal(testNotification())
	require.NoError(t, err)

	done, err := relay.deliver(context.Background(), "id", raw)
	assert.Error(t, err)
	assert.False(t, done)
}

func TestDeliver_FillsMissingID(t *testing.T) {
	pub := mocks.NewMockPushPublisher()
	relay := NewRelay(nil, "", pub, zap.NewNop())

	n := testNotification()
	n.ID = ""
	raw, err := json.Marshal(n)
	require.NoError(t, err)

	_, err = relay.deliver(context.Background(), "row-id", raw)
	require.NoError(t, err)
	assert.Equal(t, "row-id", pub.GetPublished()[0].ID)
}

func TestRelay_Readiness(t *testing.T) {
	relay := NewRelay(nil, "", mocks.NewMockPushPublisher(), zap.NewNop())
	assert.True(t, relay.IsHealthy())
	assert.True(t, relay.IsReady())

	relay.lastProcessed.Store(time.Now().Add(-2 * healthCheckStaleThreshold).UnixNano())
	assert.False(t, relay.IsReady())
	assert.True(t, relay.IsHealthy())
}

func TestRelay_CatchUpRestoresHealth(t *testing.T) {
	relay := NewRelay(nil, "", mocks.NewMockPushPublisher(), zap.NewNop())

	relay.listenerLost()
	assert.False(t, relay.IsHealthy())
	assert.False(t, relay.IsReady())

	relay.caughtUp(errors.New("connection refused"))
	assert.False(t, relay.IsHealthy(), "a failed pass proves nothing")

	relay.caughtUp(nil)
	assert.True(t, relay.IsHealthy())
	assert.True(t, relay.IsReady())
}

func TestExecDB_PublishFailuresDoNotOpenBreaker(t *testing.T) {
	relay := NewRelay(nil, "", mocks.NewMockPushPublisher(), zap.NewNop())
	brokerDown := errors.New("channel closed")

	for i := 0; i < 5; i++ {
		err := relay.execDB(func(publishErr *error) error {
			*publishErr = brokerDown
			return nil
		})
		assert.ErrorIs(t, err, brokerDown)
	}
	assert.Equal(t, gobreaker.StateClosed, relay.dbCB.State())
	assert.True(t, relay.IsReady())

	dbDown := errors.New("connection reset by peer")
	for i := 0; i < 3; i++ {
		err := relay.execDB(func(*error) error { return dbDown })
		assert.ErrorIs(t, err, dbDown)
	}
	assert.Equal(t, gobreaker.StateOpen, relay.dbCB.State())
	assert.False(t, relay.IsReady())
}
