package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) SendResetLink(ctx context.Context, to Recipient, resetLink string) error {
	r.calls++
	return r.err
}

func TestMulti_FansOutToAllChannels(t *testing.T) {
	first := &recordingNotifier{err: errors.New("smtp down")}
	second := &recordingNotifier{}

	m := Multi{first, second}
	err := m.SendResetLink(context.Background(), Recipient{Email: "a@example.com"}, "http://link")

	// Every channel is tried even when an earlier one fails, and the first
	// failure is what surfaces.
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.EqualError(t, err, "smtp down")
}

func TestSMSNotifier_SendsFormRequest(t *testing.T) {
	var gotAuth, gotNumbers, gotMessage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("authorization")
		gotNumbers = r.PostFormValue("numbers")
		gotMessage = r.PostFormValue("message")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSMSNotifier(srv.URL, "api-key-123")
	err := n.SendResetLink(context.Background(),
		Recipient{Name: "Alice", Phone: "0812345678901"},
		"http://localhost:8080/reset-password?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "api-key-123", gotAuth)
	assert.Equal(t, "0812345678901", gotNumbers)
	assert.Contains(t, gotMessage, "reset-password?token=abc")
}

func TestSMSNotifier_SkipsRecipientWithoutPhone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway should not be called")
	}))
	defer srv.Close()

	n := NewSMSNotifier(srv.URL, "api-key-123")
	err := n.SendResetLink(context.Background(), Recipient{Email: "a@example.com"}, "http://link")
	assert.NoError(t, err)
}

func TestSMSNotifier_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewSMSNotifier(srv.URL, "api-key-123")
	err := n.SendResetLink(context.Background(), Recipient{Phone: "0812345678901"}, "http://link")
	assert.Error(t, err)
}
