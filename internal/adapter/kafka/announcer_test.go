package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakewatch/quake-data-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	mag := 4.1
	ingested := time.Date(2024, 6, 17, 15, 0, 0, 0, time.UTC)
	ev := domain.QuakeEvent{
		Date:       "2024-06-17",
		Time:       "14:32:10",
		Lat:        38.42,
		Lon:        27.14,
		DepthKm:    7.2,
		Magnitude:  &mag,
		Place:      "SEFERIHISAR",
		Area:       "IZMIR",
		Variant:    "koeri-list",
		IngestedAt: ingested,
	}

	msg, err := serializeToMessage("2024061714321038422714", ev)
	require.NoError(t, err)

	assert.Equal(t, []byte("2024061714321038422714"), msg.Key)
	assert.Contains(t, string(msg.Value), `"place":"SEFERIHISAR"`)
	assert.Contains(t, string(msg.Value), `"magnitude":4.1`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "variant", msg.Headers[0].Key)
	assert.Equal(t, []byte("koeri-list"), msg.Headers[0].Value)
	assert.Equal(t, "ingested_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(ingested.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_NullMagnitude(t *testing.T) {
	ev := domain.QuakeEvent{
		Date:    "2024-06-17",
		Place:   "AKDENIZ",
		Variant: "koeri-list",
	}

	msg, err := serializeToMessage("202406173610295", ev)
	require.NoError(t, err)
	assert.Contains(t, string(msg.Value), `"magnitude":null`)
}
