package webfetch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFetchStripsMarkupAndCaches(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`<html><head><style>.x{color:red}</style>
<script>alert("no")</script></head>
<body><h1>Mining  Indaba</h1><p>Day one   highlights</p>
<img src="/photos/opening.jpg"><img src="//cdn.example.com/banner.png"></body></html>`))
	}))
	defer server.Close()

	f := New(30)
	result, err := f.Fetch(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if result.FromCache {
		t.Error("first fetch must not be served from cache")
	}
	if result.Content != "Mining Indaba Day one highlights" {
		t.Errorf("content = %q", result.Content)
	}
	if strings.Contains(result.Content, "alert") || strings.Contains(result.Content, "color") {
		t.Errorf("script/style leaked into text: %q", result.Content)
	}
	if len(result.Images) != 2 {
		t.Fatalf("want 2 images, got %v", result.Images)
	}
	if result.Images[0] != server.URL+"/photos/opening.jpg" {
		t.Errorf("relative image not absolutized: %q", result.Images[0])
	}
	if result.Images[1] != "https://cdn.example.com/banner.png" {
		t.Errorf("protocol-relative image not fixed: %q", result.Images[1])
	}

	again, err := f.Fetch(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !again.FromCache {
		t.Error("second fetch must come from cache")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}

	f.Invalidate(server.URL)
	refreshed, err := f.Fetch(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.FromCache {
		t.Error("fetch after Invalidate must refresh")
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("server hit %d times, want 2", hits)
	}
}

func TestFetchSSLFallback(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<body>secure content</body>"))
	}))
	defer server.Close()

	// The httptest TLS server uses a self-signed certificate, so the
	// verified attempt fails and the fetcher retries unverified.
	f := New(30)
	result, err := f.Fetch(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !result.SSLFallbackUsed {
		t.Error("self-signed certificate must set SSLFallbackUsed")
	}
	if result.Content != "secure content" {
		t.Errorf("content = %q", result.Content)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(30)
	if _, err := f.Fetch(server.URL); err == nil {
		t.Error("non-2xx response must fail")
	}
}
