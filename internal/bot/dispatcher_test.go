package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu    sync.Mutex
	seen  map[int64][]int
	wg    sync.WaitGroup
	block func(chatID int64)
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{seen: make(map[int64][]int)}
}

func (h *recordingHandler) HandleUpdate(_ context.Context, update tgbotapi.Update) {
	chatID := chatIDOf(update)
	if h.block != nil {
		h.block(chatID)
	}
	h.mu.Lock()
	h.seen[chatID] = append(h.seen[chatID], update.UpdateID)
	h.mu.Unlock()
	h.wg.Done()
}

func numberedUpdate(chatID int64, id int) tgbotapi.Update {
	u := textUpdate(chatID, "song")
	u.UpdateID = id
	return u
}

func TestDispatcherPreservesPerChatOrder(t *testing.T) {
	t.Parallel()
	handler := newRecordingHandler()
	d := NewDispatcher(nil, handler, 4)
	defer d.Shutdown()

	const n = 10
	handler.wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, d.Enqueue(numberedUpdate(1, i)))
	}
	handler.wg.Wait()

	want := make([]int, n)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, handler.seen[1])
}

func TestDispatcherRunsChatsConcurrently(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	handler := newRecordingHandler()
	handler.block = func(chatID int64) {
		if chatID == 1 {
			<-release
		}
	}
	d := NewDispatcher(nil, handler, 2)
	defer d.Shutdown()

	handler.wg.Add(2)
	require.NoError(t, d.Enqueue(numberedUpdate(1, 1)))
	require.NoError(t, d.Enqueue(numberedUpdate(2, 2)))

	// Chat 2 must finish while chat 1 is still blocked.
	deadline := time.After(2 * time.Second)
	for {
		handler.mu.Lock()
		done := len(handler.seen[2]) == 1
		handler.mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("chat 2 never ran while chat 1 was blocked")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(release)
	handler.wg.Wait()
}

func TestDispatcherRejectsUnroutableUpdate(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(nil, newRecordingHandler(), 1)
	defer d.Shutdown()

	assert.ErrorIs(t, d.Enqueue(tgbotapi.Update{}), ErrUnroutable)
}

func TestDispatcherRejectsAfterShutdown(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(nil, newRecordingHandler(), 1)
	d.Shutdown()

	assert.ErrorIs(t, d.Enqueue(numberedUpdate(1, 1)), ErrStopped)
}
