package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking/internal/status"
)

func paymentRequest() *Request {
	return &Request{
		Amount:    decimal.NewFromInt(20),
		Currency:  "EUR",
		Payer:     "user-1",
		Reference: "ABCD1234",
	}
}

func TestClient_ProcessConfirmed(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments/process", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(Receipt{Status: "confirmed", TransactionID: "txn_123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	receipt, err := client.Process(context.Background(), paymentRequest())

	require.NoError(t, err)
	assert.Equal(t, "txn_123", receipt.TransactionID)
	assert.Equal(t, "confirmed", receipt.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "user-1", got.Payer)
}

func TestClient_ProcessDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Receipt{Status: "declined"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Process(context.Background(), paymentRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPaymentFailed))
}

func TestClient_ProcessServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Process(context.Background(), paymentRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPaymentFailed))
}

func TestClient_ProcessTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	// LIFO order matters: the handler must be unblocked before Close waits
	// for it.
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, 30*time.Millisecond)
	start := time.Now()
	_, err := client.Process(context.Background(), paymentRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPaymentFailed))
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	for i := 0; i < 6; i++ {
		_, err := client.Process(context.Background(), paymentRequest())
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrPaymentFailed))
	}

	// The breaker trips after five consecutive failures; the sixth attempt
	// never reaches the gateway.
	assert.EqualValues(t, 5, atomic.LoadInt32(&calls))
}
