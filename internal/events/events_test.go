package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEventSubject(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Event{Type: TypeCreated, DeliberationID: "abc"}, "deliberate.deliberation.abc.created"},
		{Event{Type: TypeUpdated, DeliberationID: "abc"}, "deliberate.deliberation.abc.updated"},
		{Event{Type: TypeDeleted, DeliberationID: "abc"}, "deliberate.deliberation.abc.deleted"},
		{Event{Type: TypeCleared, Count: 0}, SubjectArchiveCleared},
	}
	for _, tt := range tests {
		if got := tt.event.Subject(); got != tt.want {
			t.Errorf("Subject() for %s = %q, want %q", tt.event.Type, got, tt.want)
		}
	}
}

func TestEventJSON(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	data, err := json.Marshal(Event{Type: TypeCleared, Count: 0, At: at})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"cleared","count":0,"at":"2026-02-03T04:05:06Z"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), Event{Type: TypeCreated}); err != nil {
		t.Errorf("NopPublisher.Publish() = %v", err)
	}
}

func TestNATSPublisherUnreachableFailsFast(t *testing.T) {
	start := time.Now()
	p, err := NewNATSPublisher(context.Background(), "nats://127.0.0.1:1", nil)
	if err == nil {
		p.Close()
		t.Fatal("expected connect error for unreachable server")
	}
	if elapsed := time.Since(start); elapsed > 2*connectTimeout {
		t.Errorf("connect took %v, want under %v", elapsed, 2*connectTimeout)
	}
}
