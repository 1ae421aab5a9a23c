package mq

import (
	"context"
	"os"
	"testing"
)

func TestMemoryPublisher(t *testing.T) {
	p := &MemoryPublisher{}
	ev := NewEvent(EventLikeToggled, 1, "video", 2, true)
	if ev.EventID == "" || ev.Timestamp == 0 {
		t.Fatalf("event not stamped: %+v", ev)
	}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if got := p.Events(); len(got) != 1 || got[0].EventType != EventLikeToggled {
		t.Fatalf("events = %+v", got)
	}
}

func TestProducer(t *testing.T) {
	url := os.Getenv("VIDEOTUBE_TEST_RABBITMQ_URL")
	if url == "" {
		t.Skip("VIDEOTUBE_TEST_RABBITMQ_URL not set")
	}
	p, err := NewProducer(url, "")
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	defer p.Close()
	if err := p.Publish(context.Background(), NewEvent(EventVideoDeleted, 1, "video", 3, false)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
