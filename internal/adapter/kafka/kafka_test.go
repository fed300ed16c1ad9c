package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
	"github.com/couchcryptid/fbp-etl/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("KAM"),
		Value:     []byte(`{"station_code":"KAM"}`),
		Topic:     "station-fire-weather",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("cwfis")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("KAM"), raw.Key)
	assert.JSONEq(t, `{"station_code":"KAM"}`, string(raw.Value))
	assert.Equal(t, "station-fire-weather", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "cwfis", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestMapOutputEventToMessage(t *testing.T) {
	processed := time.Date(2024, 7, 15, 20, 0, 0, 0, time.UTC)
	out, err := domain.SerializePrediction(domain.Prediction{
		ID:          "fbp-0123456789abcdef",
		StationCode: "KAM",
		Date:        "2024-07-15",
		FuelType:    cffdrs.C2,
		ROS:         12.5,
		ProcessedAt: processed,
	})
	require.NoError(t, err)

	msg := mapOutputEventToMessage(out)

	assert.Equal(t, []byte("fbp-0123456789abcdef"), msg.Key)
	assert.Contains(t, string(msg.Value), `"fuel_type":"C2"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, kafkago.Header{Key: "fuel_type", Value: []byte("C2")}, msg.Headers[0])
	assert.Equal(t, kafkago.Header{Key: "processed_at", Value: []byte(processed.Format(time.RFC3339))}, msg.Headers[1])
	assert.Equal(t, kafkago.Header{Key: "station_code", Value: []byte("KAM")}, msg.Headers[2])
}

func TestMapOutputEventToMessage_NoHeaders(t *testing.T) {
	msg := mapOutputEventToMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("{}")})
	assert.Empty(t, msg.Headers)
}
