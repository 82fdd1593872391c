package rostercache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

type stubRoster struct {
	codes []domain.InviteCode
	calls int
	err   error
}

func (s *stubRoster) ListValidCodes(ctx context.Context) ([]domain.InviteCode, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.codes, nil
}

func (s *stubRoster) GetCodeDetails(ctx context.Context, code string) (*domain.InviteCode, error) {
	for i := range s.codes {
		if s.codes[i].Code == code {
			return &s.codes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCachedRoster_MissThenHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	roster := []domain.InviteCode{{Code: "G1-A-1", GroupLabel: "friends", Slots: 2}}
	raw, err := json.Marshal(roster)
	require.NoError(t, err)

	mock.ExpectGet(rosterKey).RedisNil()
	mock.ExpectSet(rosterKey, raw, time.Minute).SetVal("OK")

	src := &stubRoster{codes: roster}
	cache := New(src, rdb, time.Minute, testLogger())

	codes, err := cache.ListValidCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	require.Equal(t, 1, src.calls)

	mock.ExpectGet(rosterKey).SetVal(string(raw))
	codes, err = cache.ListValidCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	require.Equal(t, 1, src.calls, "cache hit must not refetch the roster")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedRoster_FailsOpenOnRedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	roster := []domain.InviteCode{{Code: "G1-A-1"}}
	raw, err := json.Marshal(roster)
	require.NoError(t, err)

	mock.ExpectGet(rosterKey).SetErr(errors.New("connection refused"))
	mock.ExpectSet(rosterKey, raw, time.Minute).SetErr(errors.New("connection refused"))

	src := &stubRoster{codes: roster}
	cache := New(src, rdb, time.Minute, testLogger())

	codes, err := cache.ListValidCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	require.Equal(t, 1, src.calls)
}

func TestCachedRoster_GetCodeDetails(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	roster := []domain.InviteCode{{Code: "G1-A-1", GroupLabel: "friends"}}
	raw, err := json.Marshal(roster)
	require.NoError(t, err)

	mock.ExpectGet(rosterKey).SetVal(string(raw))
	mock.ExpectGet(rosterKey).SetVal(string(raw))

	cache := New(&stubRoster{codes: roster}, rdb, time.Minute, testLogger())

	code, err := cache.GetCodeDetails(context.Background(), "G1-A-1")
	require.NoError(t, err)
	require.Equal(t, "friends", code.GroupLabel)

	_, err = cache.GetCodeDetails(context.Background(), "NOPE")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
