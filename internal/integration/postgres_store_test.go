//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/quakewatch/quake-data-etl/internal/adapter/postgres"
	"github.com/quakewatch/quake-data-etl/internal/domain"
)

// startPostgres launches a disposable Postgres and returns its DSN.
func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("quakes"),
		tcpostgres.WithUsername("quake"),
		tcpostgres.WithPassword("quake"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "container connection string")
	return dsn
}

func quakeEvent(timeOfDay string, lat float64) domain.QuakeEvent {
	mag := 4.1
	return domain.QuakeEvent{
		Date:          "2024-06-17",
		Time:          timeOfDay,
		Lat:           lat,
		Lon:           27.14,
		DepthKm:       7.2,
		Magnitude:     &mag,
		MagnitudeType: "ml",
		Place:         "SEFERIHISAR",
		Area:          "IZMIR",
		Variant:       "koeri-list",
		IngestedAt:    time.Date(2024, time.June, 17, 15, 0, 0, 0, time.UTC),
	}
}

// TestStoreUpsertIfAbsent verifies the store against a real Postgres: schema
// bootstrap is idempotent, the first write inserts, and a second write with
// the same identity key is reported as a duplicate without an error.
func TestStoreUpsertIfAbsent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := startPostgres(ctx, t)

	store, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx), "schema bootstrap must be re-runnable")
	require.NoError(t, store.Ready(ctx))

	ev := quakeEvent("14:32:10", 38.42)
	key := domain.IdentityKey(ev)

	outcome, err := store.UpsertIfAbsent(ctx, key, ev)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInserted, outcome)

	outcome, err = store.UpsertIfAbsent(ctx, key, ev)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDuplicate, outcome)

	other := quakeEvent("14:35:44", 38.43)
	outcome, err = store.UpsertIfAbsent(ctx, domain.IdentityKey(other), other)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInserted, outcome)
}

// TestStoreNullableColumns verifies that an event with every optional field
// empty (no time, no magnitude, no area) still inserts against the schema's
// NOT NULL constraints.
func TestStoreNullableColumns(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := startPostgres(ctx, t)

	store, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.EnsureSchema(ctx))

	ev := domain.QuakeEvent{
		Date:       "2024-06-17",
		Lat:        36.10,
		Lon:        29.50,
		DepthKm:    10.0,
		Place:      "AKDENIZ",
		Variant:    "koeri-list",
		IngestedAt: time.Date(2024, time.June, 17, 15, 0, 0, 0, time.UTC),
	}

	outcome, err := store.UpsertIfAbsent(ctx, domain.IdentityKey(ev), ev)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInserted, outcome)
}
