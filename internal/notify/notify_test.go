package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubmission() *domain.ContactSubmission {
	phone := "050-1234567"
	return &domain.ContactSubmission{
		ID:        "contact-1",
		FirstName: "Dana",
		LastName:  "Levi",
		Email:     "dana@example.com",
		Phone:     &phone,
		Subject:   "Remedy question",
		Message:   "Which remedy helps with sleep?",
		CreatedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *recordingNotifier) NotifyContact(context.Context, *domain.ContactSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	a := &recordingNotifier{err: errA}
	b := &recordingNotifier{}

	err := Multi{a, b}.NotifyContact(context.Background(), sampleSubmission())
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestCombine(t *testing.T) {
	assert.IsType(t, Nop{}, Combine())
	assert.IsType(t, Nop{}, Combine(nil, nil))

	single := &recordingNotifier{}
	assert.Same(t, single, Combine(nil, single))

	assert.IsType(t, Multi{}, Combine(single, &recordingNotifier{}))
}

func TestSendGridNotifier_PostsMail(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n, err := NewSendGridNotifier("sg-key", "shop@example.com", "inbox@example.com", WithSendGridHost(server.URL))
	require.NoError(t, err)

	require.NoError(t, n.NotifyContact(context.Background(), sampleSubmission()))
	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Bearer sg-key", gotAuth)
	assert.Equal(t, "[Contact] Remedy question", gotBody["subject"])

	replyTo := gotBody["reply_to"].(map[string]any)
	assert.Equal(t, "dana@example.com", replyTo["email"])
}

func TestSendGridNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	n, err := NewSendGridNotifier("bad", "shop@example.com", "inbox@example.com", WithSendGridHost(server.URL))
	require.NoError(t, err)

	err = n.NotifyContact(context.Background(), sampleSubmission())
	require.ErrorContains(t, err, "status=401")
}

func TestNewSendGridNotifier_RequiresSettings(t *testing.T) {
	_, err := NewSendGridNotifier("", "a@b.c", "d@e.f")
	assert.ErrorContains(t, err, "api key")
	_, err = NewSendGridNotifier("k", "", "d@e.f")
	assert.ErrorContains(t, err, "from")
	_, err = NewSendGridNotifier("k", "a@b.c", "")
	assert.ErrorContains(t, err, "to address")
}

func TestKafkaNotifier_WritesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	n := NewKafkaNotifier(w)

	require.NoError(t, n.NotifyContact(context.Background(), sampleSubmission()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "contact-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "ContactSubmitted", string(msg.Headers[0].Value))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "dana@example.com", payload["email"])
	assert.Equal(t, "050-1234567", payload["phone"])

	require.NoError(t, n.Close())
	assert.True(t, w.closed)
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	n := NewKafkaNotifier(&fakeWriter{err: boom})

	err := n.NotifyContact(context.Background(), sampleSubmission())
	assert.ErrorIs(t, err, boom)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &recordingNotifier{err: errors.New("smtp down")}
	b := NewBreaker("test", next, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	assert.Error(t, b.NotifyContact(ctx, sampleSubmission()))
	assert.Error(t, b.NotifyContact(ctx, sampleSubmission()))
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.NotifyContact(ctx, sampleSubmission())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls)
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	next := &recordingNotifier{}
	b := NewBreaker("ok", next, BreakerSettings{})

	require.NoError(t, b.NotifyContact(context.Background(), sampleSubmission()))
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 1, next.calls)
}
