package chesscom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesskit/pkg/config"
	errs "chesskit/pkg/errors"
	"chesskit/pkg/logger"
	"chesskit/pkg/retry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, log logger.Logger) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig().API
	cfg.BaseURL = server.URL
	cfg.UserAgent = "chesskit-test/1.0"
	cfg.Timeout = 5 * time.Second
	if log == nil {
		log = logger.NewNopLogger()
	}

	client := NewClient(cfg, log, WithRetry(&retry.Config{
		MaxAttempts: 3,
		Backoff:     &retry.ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     retry.DefaultRetryIf,
	}))
	return client, server
}

func TestEndpoints(t *testing.T) {
	assert.Equal(t, "https://api.chess.com/pub/player/magnuscarlsen", GetProfileURL(BaseURL, "MagnusCarlsen"))
	assert.Equal(t, "http://x/pub/player/hikaru/games/archives", GetArchivesURL("http://x/", "hikaru"))
}

func TestFetchProfile(t *testing.T) {
	var userAgent string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/pub/player/hikaru", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"hikaru","player_id":15448422,"status":"premium"}`))
	}, nil)

	profile, err := client.FetchProfile(context.Background(), "hikaru")
	require.NoError(t, err)
	assert.Equal(t, "hikaru", profile.Username)
	assert.Equal(t, int64(15448422), profile.PlayerID)
	assert.Equal(t, "chesskit-test/1.0", userAgent)
}

func TestFetchProfileStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType errs.ErrorType
		calls    int32
	}{
		{"not found", http.StatusNotFound, errs.ErrorTypeNotFound, 1},
		{"private", http.StatusForbidden, errs.ErrorTypePrivate, 1},
		{"teapot", http.StatusTeapot, errs.ErrorTypeUnknown, 1},
		{"server error retried", http.StatusBadGateway, errs.ErrorTypeServerError, 3},
		{"rate limited retried", http.StatusTooManyRequests, errs.ErrorTypeRateLimit, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}, nil)

			_, err := client.FetchProfile(context.Background(), "someone")
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errs.TypeOf(err))
			assert.Equal(t, tt.calls, atomic.LoadInt32(&calls))
		})
	}
}

func TestFetchProfileRecoversAfterRetry(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"username":"hikaru"}`))
	}, nil)

	profile, err := client.FetchProfile(context.Background(), "hikaru")
	require.NoError(t, err)
	assert.Equal(t, "hikaru", profile.Username)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetchProfileNetworkError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	server.Close()

	_, err := client.FetchProfile(context.Background(), "hikaru")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
}

func TestFetchProfileRequiresUsername(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, nil)

	_, err := client.FetchProfile(context.Background(), "")
	assert.Equal(t, errs.ErrorTypeInvalidInput, errs.TypeOf(err))
}

func TestListArchives(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pub/player/hikaru/games/archives", r.URL.Path)
		w.Write([]byte(`{"archives":["https://api.chess.com/pub/player/hikaru/games/2023/04","https://api.chess.com/pub/player/hikaru/games/2023/05"]}`))
	}, nil)

	archives, err := client.ListArchives(context.Background(), "hikaru")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://api.chess.com/pub/player/hikaru/games/2023/04",
		"https://api.chess.com/pub/player/hikaru/games/2023/05",
	}, archives)
}

func TestFetchMonth(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games":[{"url":"g1","pgn":"1. e4 e5"},{"url":"g2"}]}`))
	}, nil)

	games, err := client.FetchMonth(context.Background(), server.URL+"/pub/player/hikaru/games/2023/05")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.True(t, games[0].HasPGN())
	assert.False(t, games[1].HasPGN())
}

func TestGetJSONParseError(t *testing.T) {
	log := logger.NewTestLogger()
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games": [`))
	}, log)

	_, err := client.FetchMonth(context.Background(), server.URL+"/broken")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))

	msg, ok := log.Find("failed to parse JSON response")
	require.True(t, ok)
	assert.Equal(t, `{"games": [`, msg.Fields["body_preview"])
}

func TestRequestLogging(t *testing.T) {
	log := logger.NewTestLogger()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, log)

	_, _ = client.FetchProfile(context.Background(), "ghost")

	assert.True(t, log.HasMessage("sending HTTP request"))
	assert.True(t, log.HasMessage("HTTP request completed"))
	msg, ok := log.Find("not_found")
	require.True(t, ok)
	assert.Equal(t, 404, msg.Fields["status"])
}

func TestCancelledContextIsNotRetried(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProfile(ctx, "hikaru")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestNewClientBackoff(t *testing.T) {
	cfg := config.DefaultConfig().API
	cfg.RetryDelay = 250 * time.Millisecond

	client := NewClient(cfg, logger.NewNopLogger())
	exp, ok := client.retry.Backoff.(*retry.ExponentialBackoff)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, exp.BaseDelay)
	assert.Equal(t, cfg.MaxRetries+1, client.retry.MaxAttempts)

	cfg.RetryBackoff = "constant"
	client = NewClient(cfg, logger.NewNopLogger())
	constant, ok := client.retry.Backoff.(*retry.ConstantBackoff)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, constant.NextDelay(1))
	assert.Equal(t, 250*time.Millisecond, constant.NextDelay(3))
}
