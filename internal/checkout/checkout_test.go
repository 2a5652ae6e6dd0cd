package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(secretKey string, srv *httptest.Server) *Client {
	c := New(secretKey, "https://wedding.example")
	if srv != nil {
		c.endpoint = srv.URL
		c.httpc = srv.Client()
	}
	return c
}

func TestCreateSession_MissingCredentialSkipsProvider(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	_, err := testClient("", srv).CreateSession(context.Background())
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
	if calls != 0 {
		t.Fatalf("provider was called %d times, want 0", calls)
	}
}

func TestCreateSession_SendsFixedLineItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("Authorization = %q", got)
		}
		checks := []struct{ key, want string }{
			{"mode", "payment"},
			{"payment_method_types[0]", "card"},
			{"line_items[0][price_data][currency]", "gbp"},
			{"line_items[0][price_data][unit_amount]", "1000"},
			{"line_items[0][price_data][product_data][name]", "Wedding Planner – PDF & CSV Export"},
			{"line_items[0][quantity]", "1"},
			{"success_url", "https://wedding.example/premium?success=1&session_id={CHECKOUT_SESSION_ID}"},
			{"cancel_url", "https://wedding.example/plan?canceled=1"},
		}
		for _, check := range checks {
			if got := r.PostFormValue(check.key); got != check.want {
				t.Errorf("form[%s] = %q, want %q", check.key, got, check.want)
			}
		}
		w.Write([]byte(`{"url": "https://pay.example/cs_123"}`))
	}))
	defer srv.Close()

	url, err := testClient("sk_test_123", srv).CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if url != "https://pay.example/cs_123" {
		t.Fatalf("url = %q", url)
	}
}

func TestCreateSession_SurfacesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "Your account cannot currently make live charges."}}`))
	}))
	defer srv.Close()

	_, err := testClient("sk_test_123", srv).CreateSession(context.Background())
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.Message != "Your account cannot currently make live charges." {
		t.Fatalf("message = %q, want provider message verbatim", pe.Message)
	}
}

func TestCreateSession_GenericMessageForOpaqueFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	_, err := testClient("sk_test_123", srv).CreateSession(context.Background())
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.Message != "Stripe API error" {
		t.Fatalf("message = %q, want generic provider message", pe.Message)
	}
}

func TestCreateSession_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := testClient("sk_test_123", srv)
	srv.Close()

	_, err := client.CreateSession(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}
