package formclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPBeaconPostsInBackground(t *testing.T) {
	var (
		mu          sync.Mutex
		gotBody     string
		contentType string
	)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody = string(body)
		contentType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	beacon := NewHTTPBeacon(srv.Client(), time.Second, nil)

	queued := beacon.Send(srv.URL, "application/json", []byte(`{"sessionId":"s1"}`))
	require.True(t, queued, "send returns before the server answers")

	close(release)
	beacon.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, `{"sessionId":"s1"}`, gotBody)
	assert.Equal(t, "application/json", contentType)
}

func TestHTTPBeaconRejects(t *testing.T) {
	beacon := NewHTTPBeacon(nil, time.Second, nil)

	assert.False(t, beacon.Send("http://example.com", "application/json", []byte(strings.Repeat("a", MaxBeaconBytes+1))))
	assert.False(t, beacon.Send("://bad", "application/json", []byte(`{}`)))
}

func TestHTTPBeaconTimesOut(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	beacon := NewHTTPBeacon(srv.Client(), 50*time.Millisecond, nil)
	require.True(t, beacon.Send(srv.URL, "application/json", []byte(`{}`)))

	done := make(chan struct{})
	go func() {
		beacon.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("beacon did not honor its own timeout")
	}
}
