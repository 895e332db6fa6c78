package selector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubezen/internal/config"
	"kubezen/internal/event"
)

func TestParseLine(t *testing.T) {
	sel, err := ParseLine("web|abc-123|🐳 web   5d Running")
	require.NoError(t, err)
	assert.Equal(t, "web", sel.Code)
	assert.Equal(t, "abc-123", sel.ViewSessionID)
	assert.Equal(t, "🐳 web   5d Running", sel.DisplayText)

	_, err = ParseLine("no-delimiters-here")
	assert.Error(t, err)

	_, err = ParseLine("|session|text")
	assert.Error(t, err)
}

func TestBridge_SelectionCallbackPublishes(t *testing.T) {
	bus := event.NewBus()
	var mu sync.Mutex
	var got []event.SelectionEvent
	bus.Subscribe(event.TypeSelection, func(ctx context.Context, e event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(event.SelectionEvent))
		return nil
	})

	b := NewBridge(config.DefaultConfig(), bus, nil)
	req := httptest.NewRequest(http.MethodPost, "/event/select", strings.NewReader("web|s1|🐳 web"))
	rec := httptest.NewRecorder()
	b.handleSelect(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0].Code == "web" && got[0].ViewSessionID == "s1"
	}, time.Second, 10*time.Millisecond)
}

func TestBridge_MalformedSelectionDropped(t *testing.T) {
	bus := event.NewBus()
	var count int
	var mu sync.Mutex
	bus.Subscribe(event.TypeSelection, func(ctx context.Context, e event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	})

	b := NewBridge(config.DefaultConfig(), bus, nil)
	rec := httptest.NewRecorder()
	b.handleSelect(rec, httptest.NewRequest(http.MethodPost, "/event/select", strings.NewReader("garbage")))
	assert.Equal(t, http.StatusOK, rec.Code, "malformed input is dropped, not an error")

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestBridge_SendActionsJoinsWithPlus(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		received = string(body)
	}))
	defer srv.Close()

	b := NewBridge(config.DefaultConfig(), event.NewBus(), nil)
	b.fzfAddr = strings.TrimPrefix(srv.URL, "http://")

	err := b.SendActions(context.Background(), []string{"change-prompt(> )", "reload(cat /tmp/items)", "first"})
	require.NoError(t, err)
	assert.Equal(t, "change-prompt(> )+reload(cat /tmp/items)+first", received)
}

func TestBridge_SendActionsEmptyIsNoop(t *testing.T) {
	b := NewBridge(config.DefaultConfig(), event.NewBus(), nil)
	assert.NoError(t, b.SendActions(context.Background(), nil))
}

func TestBridge_IsRunning(t *testing.T) {
	b := NewBridge(config.DefaultConfig(), event.NewBus(), nil)
	assert.False(t, b.IsRunning(context.Background()), "no address yet")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	b.fzfAddr = strings.TrimPrefix(srv.URL, "http://")
	assert.True(t, b.IsRunning(context.Background()))

	srv.Close()
	assert.False(t, b.IsRunning(context.Background()))
}
