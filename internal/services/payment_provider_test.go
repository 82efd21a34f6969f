package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPPaymentProviderCharge(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_test_1"}`))
	}))
	defer server.Close()

	provider := NewHTTPPaymentProvider(server.URL+"/", "sk_test")

	ref, err := provider.Charge(context.Background(), 25.50, "usd", "monthly coaching")
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if ref != "ch_test_1" {
		t.Fatalf("expected ch_test_1, got %q", ref)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/v1/charges" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["currency"] != "usd" || gotBody["amount"] != 25.5 {
		t.Fatalf("unexpected payload: %v", gotBody)
	}
}

func TestHTTPPaymentProviderChargeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"card_declined"}`, http.StatusPaymentRequired)
	}))
	defer server.Close()

	provider := NewHTTPPaymentProvider(server.URL, "sk_test")

	if _, err := provider.Charge(context.Background(), 10, "usd", ""); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

func TestHTTPPaymentProviderMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := NewHTTPPaymentProvider(server.URL, "sk_test")

	if _, err := provider.Charge(context.Background(), 10, "usd", ""); err == nil {
		t.Fatal("expected error when charge id is missing")
	}
}
