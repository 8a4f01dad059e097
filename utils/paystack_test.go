package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref_abc123", r.URL.Path)
		require.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"data":{"status":"success","amount":250000}}`))
	}))
	defer srv.Close()

	v := NewPaystackVerifier(srv.URL, "sk_test_secret")
	tx, err := v.VerifyTransaction(context.Background(), "ref_abc123")
	require.NoError(t, err)
	require.Equal(t, "ref_abc123", tx.Reference)
	// 250000 kobo -> 2500.00
	require.InDelta(t, 2500, tx.Amount, 0.001)
	require.Equal(t, "success", tx.Status)
}

func TestVerifyTransactionTrimsReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref_abc123", r.URL.Path)
		w.Write([]byte(`{"status":true,"data":{"status":"success","amount":100}}`))
	}))
	defer srv.Close()

	v := NewPaystackVerifier(srv.URL, "sk_test_secret")
	tx, err := v.VerifyTransaction(context.Background(), "  ref_abc123  ")
	require.NoError(t, err)
	require.Equal(t, "ref_abc123", tx.Reference)
}

func TestVerifyTransactionGatewayReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{"status":"failed","amount":250000}}`))
	}))
	defer srv.Close()

	v := NewPaystackVerifier(srv.URL, "sk_test_secret")
	_, err := v.VerifyTransaction(context.Background(), "ref_abc123")
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyTransactionEnvelopeFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"data":{"status":"success","amount":250000}}`))
	}))
	defer srv.Close()

	v := NewPaystackVerifier(srv.URL, "sk_test_secret")
	_, err := v.VerifyTransaction(context.Background(), "ref_abc123")
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyTransactionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewPaystackVerifier(srv.URL, "sk_test_secret")
	_, err := v.VerifyTransaction(context.Background(), "ref_missing")
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyTransactionEmptyReference(t *testing.T) {
	v := NewPaystackVerifier("http://localhost:1", "sk_test_secret")
	_, err := v.VerifyTransaction(context.Background(), "   ")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrVerificationFailed)
}
