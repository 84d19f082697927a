package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const pipedBody = `{
	"title": "t",
	"videoStreams": [
		{"url":"https://cdn/v720","mimeType":"video/mp4","quality":"720p","bitrate":1500000,"height":720,"videoOnly":false},
		{"url":"https://cdn/v1080","mimeType":"video/webm","quality":"1080p","bitrate":3000000,"height":1080,"videoOnly":true}
	],
	"audioStreams": [
		{"url":"https://cdn/a","mimeType":"audio/mp4","quality":"128 kbps","bitrate":128000}
	]
}`

func staticInstances(urls ...string) func() []string {
	return func() []string { return urls }
}

func TestPipedMapsStreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/streams/dQw4w9WgXcQ" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(pipedBody))
	}))
	defer srv.Close()

	p := NewPiped(staticInstances(srv.URL), time.Second)
	streams, err := p.Fetch(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(streams) != 3 {
		t.Fatalf("got %d streams, want 3", len(streams))
	}
	if !streams[0].Combined() {
		t.Error("non-videoOnly stream should be combined")
	}
	if streams[1].HasAudio {
		t.Error("videoOnly stream should not report audio")
	}
	if streams[1].EffectiveHeight() != 1080 {
		t.Errorf("height = %d, want 1080", streams[1].EffectiveHeight())
	}
	if !streams[2].HasAudio || streams[2].HasVideo {
		t.Error("audio stream flags wrong")
	}
}

func TestPipedFallsToNextInstance(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pipedBody))
	}))
	defer good.Close()

	p := NewPiped(staticInstances(bad.URL, good.URL), time.Second)
	streams, err := p.Fetch(context.Background(), "vid")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(streams) == 0 {
		t.Fatal("expected streams from second instance")
	}
}

func TestPipedInstanceErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Video unavailable"}`))
	}))
	defer srv.Close()

	if _, err := NewPiped(staticInstances(srv.URL), time.Second).Fetch(context.Background(), "vid"); err == nil {
		t.Fatal("expected error when instance reports one")
	}
}

func TestPipedNoInstances(t *testing.T) {
	p := NewPiped(staticInstances(), time.Second)
	if _, err := p.Fetch(context.Background(), "vid"); err == nil {
		t.Fatal("expected error with empty instance pool")
	}
}
