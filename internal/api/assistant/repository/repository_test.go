package assistantRepository

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LundyVoice/database/sqlite"
	"LundyVoice/internal/api/assistant"
	"LundyVoice/internal/entity"
	assistantPkg "LundyVoice/pkg/assistant"
	"LundyVoice/pkg/booking"
	"LundyVoice/pkg/redis"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()

	db, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, Migrate(context.Background(), db), "migrations are idempotent")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(db, logger)
}

func TestBookingRepository(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	_, err = client.Bookings.GetLatestBookingBySession(ctx, "s1")
	assert.ErrorIs(t, err, assistant.ErrBookingNotFound)

	bookings := []entity.DemoBooking{
		{ID: "01A", SessionID: "s1", Name: "Jane Smith", Email: "jane@example.com", Date: "Monday", Time: "2pm", CreatedAt: base},
		{ID: "01B", SessionID: "s1", Name: "Jane Smith", Email: "jane@example.com", Date: "Tuesday", Time: "3pm", CreatedAt: base.Add(time.Hour)},
		{ID: "01C", SessionID: "s2", Name: "Bob", Email: "bob@example.com", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, b := range bookings {
		require.NoError(t, client.Bookings.CreateBooking(ctx, b))
	}

	latest, err := client.Bookings.GetLatestBookingBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "01B", latest.ID)
	assert.Equal(t, "Tuesday", latest.Date)
	assert.Equal(t, "3pm", latest.Time)
	assert.True(t, latest.CreatedAt.Equal(base.Add(time.Hour)))

	page, total, err := client.Bookings.ListBookings(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "01C", page[0].ID)
	assert.Equal(t, "01B", page[1].ID)

	page, _, err = client.Bookings.ListBookings(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "01A", page[0].ID)
}

func TestBookingRepository_Rollback(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tx, err := repo.NewClient(true)
	require.NoError(t, err)
	require.NoError(t, tx.Bookings.CreateBooking(ctx, entity.DemoBooking{ID: "01A", SessionID: "s1", CreatedAt: time.Now().UTC()}))
	require.NoError(t, tx.Rollback())

	client, err := repo.NewClient(false)
	require.NoError(t, err)
	_, total, err := client.Bookings.ListBookings(ctx, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCommandRepository(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	logs := []entity.CommandLog{
		{ID: "01A", SessionID: "s1", Path: "/", Transcript: "go to navigator", Intent: "navigate", Response: "Yes Mr. Lundy", CreatedAt: base},
		{ID: "01B", SessionID: "s1", CaptureID: "c2", Path: "/navigator", Transcript: "help", Intent: "help", Response: "I can help", CreatedAt: base.Add(time.Second)},
		{ID: "01C", SessionID: "other", Path: "/", Transcript: "hi", Intent: "fallback", CreatedAt: base},
	}
	for _, l := range logs {
		require.NoError(t, client.Commands.CreateCommandLog(ctx, l))
	}

	got, total, err := client.Commands.GetCommandLogsBySession(ctx, "s1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, "01B", got[0].ID)
	assert.Equal(t, "c2", got[0].CaptureID)
	assert.Equal(t, "go to navigator", got[1].Transcript)

	got, total, err = client.Commands.GetCommandLogsBySession(ctx, "nobody", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)
}

func testSessionStores(t *testing.T) map[string]SessionStore {
	mr := miniredis.RunT(t)
	client := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	return map[string]SessionStore{
		"memory": NewMemorySessionStore(),
		"redis":  NewRedisSessionStore(client, 0),
	}
}

func TestSessionStore(t *testing.T) {
	for name, store := range testSessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, found, err := store.GetSession(ctx, "s1")
			require.NoError(t, err)
			assert.False(t, found)

			sess := assistantPkg.NewSession("s1", "/navigator")
			sess.Dialogue = booking.State{
				Phase:  booking.PhaseCollecting,
				Step:   1,
				Fields: booking.Fields{Name: "Jane", Email: "jane@example.com"},
			}
			require.NoError(t, store.SaveSession(ctx, sess))

			got, found, err := store.GetSession(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, sess, got)

			seen, err := store.OnboardingSeen(ctx, "client-1")
			require.NoError(t, err)
			assert.False(t, seen)

			require.NoError(t, store.SetOnboardingSeen(ctx, "client-1", true))
			seen, err = store.OnboardingSeen(ctx, "client-1")
			require.NoError(t, err)
			assert.True(t, seen)

			require.NoError(t, store.SetOnboardingSeen(ctx, "client-1", false))
			seen, err = store.OnboardingSeen(ctx, "client-1")
			require.NoError(t, err)
			assert.False(t, seen)
		})
	}
}
