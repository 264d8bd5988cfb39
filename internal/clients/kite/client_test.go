package kite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetHoldings_ParsesResponse(t *testing.T) {
	mockResp := map[string]interface{}{
		"status": "success",
		"data": []map[string]interface{}{
			{
				"tradingsymbol": "TCS",
				"exchange":      "NSE",
				"isin":          "INE467B01029",
				"quantity":      float64(10),
				"t1_quantity":   float64(2),
				"average_price": 3200.50,
				"last_price":    3500.0,
			},
			{
				"tradingsymbol": "SUSPENDED",
				"exchange":      "BSE",
				"quantity":      float64(5),
				"last_price":    float64(0),
			},
		},
	}

	var capturedPath, capturedAuth, capturedVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedAuth = r.Header.Get("Authorization")
		capturedVersion = r.Header.Get("X-Kite-Version")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockResp)
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-token", WithBaseURL(srv.URL))
	holdings, err := client.GetHoldings(context.Background())
	if err != nil {
		t.Fatalf("GetHoldings failed: %v", err)
	}

	if capturedPath != "/portfolio/holdings" {
		t.Errorf("expected path /portfolio/holdings, got %s", capturedPath)
	}
	if capturedAuth != "token test-key:test-token" {
		t.Errorf("unexpected Authorization header: %s", capturedAuth)
	}
	if capturedVersion != "3" {
		t.Errorf("expected X-Kite-Version 3, got %s", capturedVersion)
	}

	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}

	tcs := holdings[0]
	if tcs.Symbol != "TCS" || tcs.Exchange != "NSE" {
		t.Errorf("unexpected identity: %s/%s", tcs.Exchange, tcs.Symbol)
	}
	if tcs.QuantityOrZero() != 12 {
		t.Errorf("expected quantity 12 (incl. t1), got %v", tcs.QuantityOrZero())
	}
	if tcs.PriceOrZero() != 3500 {
		t.Errorf("expected price 3500, got %v", tcs.PriceOrZero())
	}
	if tcs.ValueOrZero() != 12*3500 {
		t.Errorf("expected value %v, got %v", 12*3500.0, tcs.ValueOrZero())
	}
	if tcs.Currency != "INR" {
		t.Errorf("expected currency INR, got %s", tcs.Currency)
	}

	suspended := holdings[1]
	if suspended.Price != nil {
		t.Errorf("expected absent price for zero last_price, got %v", *suspended.Price)
	}
	if suspended.ValueOrZero() != 0 {
		t.Errorf("expected zero value, got %v", suspended.ValueOrZero())
	}
}

func TestGetHoldings_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"status":     "error",
			"message":    "Incorrect `api_key` or `access_token`.",
			"error_type": "TokenException",
		})
	}))
	defer srv.Close()

	client := NewClient("bad-key", "bad-token", WithBaseURL(srv.URL))
	_, err := client.GetHoldings(context.Background())
	if err == nil {
		t.Fatal("expected error for token failure")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.ErrorType != "TokenException" || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestGenerateSession_SendsChecksum(t *testing.T) {
	var capturedForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		capturedForm = map[string]string{
			"api_key":       r.PostForm.Get("api_key"),
			"request_token": r.PostForm.Get("request_token"),
			"checksum":      r.PostForm.Get("checksum"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   map[string]string{"access_token": "new-token", "user_id": "AB1234"},
		})
	}))
	defer srv.Close()

	client := NewClient("key", "", WithBaseURL(srv.URL))
	token, err := client.GenerateSession(context.Background(), "req-token", "secret")
	if err != nil {
		t.Fatalf("GenerateSession failed: %v", err)
	}
	if token != "new-token" {
		t.Errorf("expected new-token, got %s", token)
	}

	if capturedForm["api_key"] != "key" || capturedForm["request_token"] != "req-token" {
		t.Errorf("unexpected form fields: %v", capturedForm)
	}
	if len(capturedForm["checksum"]) != 64 {
		t.Errorf("expected 64-char hex checksum, got %q", capturedForm["checksum"])
	}
}

func TestSplitCredentials(t *testing.T) {
	pairs, err := SplitCredentials("key1; key2", "tok1;tok2")
	if err != nil {
		t.Fatalf("SplitCredentials failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0] != [2]string{"key1", "tok1"} || pairs[1] != [2]string{"key2", "tok2"} {
		t.Errorf("unexpected pairs: %v", pairs)
	}

	if _, err := SplitCredentials("key1;key2", "tok1"); err == nil {
		t.Error("expected mismatch error")
	}
	if _, err := SplitCredentials("", ""); err == nil {
		t.Error("expected error for empty credentials")
	}
}

func TestSplitCredentials_BeforeLogin(t *testing.T) {
	// No access tokens yet: the state the login command resolves. Keys must
	// still pair up so a client can be built for the token exchange.
	pairs, err := SplitCredentials("key1;key2", "")
	if err != nil {
		t.Fatalf("SplitCredentials failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0] != [2]string{"key1", ""} || pairs[1] != [2]string{"key2", ""} {
		t.Errorf("unexpected pairs: %v", pairs)
	}
}

func TestGetHoldings_NoAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made without an access token")
	}))
	defer srv.Close()

	client := NewClient("key", "", WithBaseURL(srv.URL))
	_, err := client.GetHoldings(context.Background())
	if err == nil {
		t.Fatal("expected error without an access token")
	}
	if !strings.Contains(err.Error(), "login") {
		t.Errorf("error should point at the login command, got: %v", err)
	}
}

func TestLoginURL(t *testing.T) {
	client := NewClient("my-key", "")
	url := client.LoginURL()
	if url != "https://kite.zerodha.com/connect/login?v=3&api_key=my-key" {
		t.Errorf("unexpected login URL: %s", url)
	}
}
