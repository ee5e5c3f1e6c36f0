package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNexmoProviderSend(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sms/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"message-count":"1","messages":[{"status":"0","message-id":"0A0000000123ABCD1"}]}`))
	}))
	defer srv.Close()

	p := &NexmoProvider{Endpoint: srv.URL, APIKey: "key", APISecret: "secret"}
	id, err := p.Send(context.Background(), Message{From: "ACME", To: "+15551230000", Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "0A0000000123ABCD1" {
		t.Fatalf("message id = %q", id)
	}
	for key, want := range map[string]string{
		"api_key":    "key",
		"api_secret": "secret",
		"from":       "ACME",
		"to":         "+15551230000",
		"text":       "hello",
	} {
		if gotForm[key] != want {
			t.Fatalf("form[%s] = %q, expected %q", key, gotForm[key], want)
		}
	}
}

func TestNexmoProviderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"messages":[{"status":"2","error-text":"Missing to param"}]}`))
	}))
	defer srv.Close()

	p := &NexmoProvider{Endpoint: srv.URL}
	if _, err := p.Send(context.Background(), Message{}); err == nil {
		t.Fatal("expected error for a rejected message")
	} else if !strings.Contains(err.Error(), "Missing to param") {
		t.Fatalf("error should carry the API detail, got: %v", err)
	}
}

func TestNexmoProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &NexmoProvider{Endpoint: srv.URL}
	if _, err := p.Send(context.Background(), Message{To: "+15551230000"}); err == nil {
		t.Fatal("expected error for a non-2xx response")
	}
}

func TestNexmoProviderEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"messages":[]}`))
	}))
	defer srv.Close()

	p := &NexmoProvider{Endpoint: srv.URL}
	if _, err := p.Send(context.Background(), Message{To: "+15551230000"}); err == nil {
		t.Fatal("expected error for an empty messages array")
	}
}
