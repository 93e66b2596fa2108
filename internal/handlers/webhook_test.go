package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	updates []tgbotapi.Update
	err     error
}

func (f *fakeEnqueuer) Enqueue(update tgbotapi.Update) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, update)
	return nil
}

func postWebhook(t *testing.T, enq Enqueuer, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	NewWebhookHandler(nil, enq).Register(e)
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAcceptsUpdate(t *testing.T) {
	t.Parallel()
	enq := &fakeEnqueuer{}
	body := `{"update_id":42,"message":{"message_id":1,"chat":{"id":7},"text":"hello"}}`

	rec := postWebhook(t, enq, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.Len(t, enq.updates, 1)
	assert.Equal(t, 42, enq.updates[0].UpdateID)
	assert.Equal(t, "hello", enq.updates[0].Message.Text)
}

func TestWebhookMalformedBodyStillAnswers200(t *testing.T) {
	t.Parallel()
	enq := &fakeEnqueuer{}

	rec := postWebhook(t, enq, `{"update_id": not-json`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Empty(t, enq.updates)
}

func TestWebhookEnqueueFailureStillAnswers200(t *testing.T) {
	t.Parallel()
	enq := &fakeEnqueuer{err: errors.New("conversation queue full")}
	body := `{"update_id":42,"message":{"message_id":1,"chat":{"id":7},"text":"hello"}}`

	rec := postWebhook(t, enq, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
	assert.Contains(t, rec.Body.String(), "queue full")
}

func TestLiveness(t *testing.T) {
	t.Parallel()
	e := echo.New()
	NewHealthHandler(nil).Register(e)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CloudSong Bot is live")

	req = httptest.NewRequest(http.MethodHead, "/health", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
