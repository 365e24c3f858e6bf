package event

import (
	"context"
	"testing"
)

func TestDisabledPublisherIsNoop(t *testing.T) {
	p, err := NewEventPublisher("", "cbt.events")
	if err != nil {
		t.Fatalf("NewEventPublisher: %v", err)
	}
	if p.Enabled() {
		t.Fatal("expected publisher to be disabled without a URL")
	}
	if err := p.PublishAttemptFinalized(context.Background(), AttemptFinalized{AttemptID: 1}); err != nil {
		t.Fatalf("PublishAttemptFinalized: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
