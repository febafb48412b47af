package server

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestHubPublish(t *testing.T) {
	h := newHub(log.New(io.Discard))
	h.publish("frame", 1) // no subscribers, dropped

	sub := h.subscribe()
	if h.count() != 1 {
		t.Fatalf("count = %d", h.count())
	}
	h.publish("frame", map[string]int{"n": 1})
	msg := string(<-sub.events)
	if msg != "event: frame\ndata: {\"n\":1}\n\n" {
		t.Errorf("message = %q", msg)
	}

	// A full buffer drops instead of blocking.
	for i := 0; i < cap(sub.events)+10; i++ {
		h.publish("frame", i)
	}
	if len(sub.events) != cap(sub.events) {
		t.Errorf("buffered %d, want %d", len(sub.events), cap(sub.events))
	}
	if first := string(<-sub.events); first != "event: frame\ndata: 10\n\n" {
		t.Errorf("oldest kept event = %q, want frame 10", first)
	}

	h.unsubscribe(sub)
	h.unsubscribe(sub)
	if h.count() != 0 {
		t.Errorf("count after unsubscribe = %d", h.count())
	}
}

func TestHubSlowClientGetsLastFrames(t *testing.T) {
	h := newHub(log.New(io.Discard))
	sub := h.subscribe()
	defer h.unsubscribe(sub)

	for i := 0; i < 600; i++ {
		h.publish("frame", map[string]any{"i": i, "kind": "tick"})
	}
	h.publish("frame", map[string]any{"slot": 0, "kind": "recolor"})
	h.publish("frame", map[string]any{"slot": 1, "kind": "recolor"})

	var got []string
	for len(sub.events) > 0 {
		got = append(got, string(<-sub.events))
	}
	if len(got) != cap(sub.events) {
		t.Fatalf("delivered %d events, want %d", len(got), cap(sub.events))
	}
	if !strings.Contains(got[len(got)-2], `"slot":0`) || !strings.Contains(got[len(got)-1], `"slot":1`) {
		t.Errorf("last events = %q, %q; want both recolor frames", got[len(got)-2], got[len(got)-1])
	}
	if !strings.Contains(got[len(got)-3], `"i":599`) {
		t.Errorf("final tick lost: %q", got[len(got)-3])
	}
}

func TestHubClose(t *testing.T) {
	h := newHub(log.New(io.Discard))
	sub := h.subscribe()
	h.close()

	for range sub.events {
	}
	late := h.subscribe()
	if _, ok := <-late.events; ok {
		t.Error("subscribe after close should yield a closed stream")
	}
	h.unsubscribe(late)
}

func TestEncodeEvent(t *testing.T) {
	msg, err := encodeEvent("snapshot", []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(msg), "event: snapshot\ndata: [\"a\"]") {
		t.Errorf("encodeEvent() = %q", msg)
	}
	if _, err := encodeEvent("x", make(chan int)); err == nil {
		t.Error("unencodable value should fail")
	}
}
