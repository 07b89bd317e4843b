package sse

import (
	"testing"

	"github.com/garoto002/siku-backend/models"
)

func TestPublishToSubscriber(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("user-1")
	defer cancel()

	b.Publish("user-1", models.Alert{Title: "hello"})

	select {
	case alert := <-ch:
		if alert.Title != "hello" {
			t.Errorf("title = %q, want hello", alert.Title)
		}
	default:
		t.Fatal("no alert delivered")
	}
}

func TestPublishWithoutSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	b.Publish("nobody", models.Alert{Title: "dropped"})
}

func TestResubscribeReplacesStream(t *testing.T) {
	b := NewBroker()
	old, _ := b.Subscribe("user-1")
	fresh, cancel := b.Subscribe("user-1")
	defer cancel()

	if _, ok := <-old; ok {
		t.Error("old stream not closed on resubscribe")
	}

	b.Publish("user-1", models.Alert{Title: "second"})
	select {
	case alert := <-fresh:
		if alert.Title != "second" {
			t.Errorf("title = %q, want second", alert.Title)
		}
	default:
		t.Fatal("new stream did not receive the alert")
	}
}

func TestCancelRemovesStream(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("user-1")
	cancel()

	if _, ok := <-ch; ok {
		t.Error("cancel did not close the stream")
	}
	// Publishing after cancel must be a no-op, not a send on closed channel.
	b.Publish("user-1", models.Alert{Title: "late"})
}

func TestCancelAfterResubscribeKeepsNewStream(t *testing.T) {
	b := NewBroker()
	_, oldCancel := b.Subscribe("user-1")
	fresh, cancel := b.Subscribe("user-1")
	defer cancel()

	// The stale cancel must not tear down the replacement stream.
	oldCancel()
	b.Publish("user-1", models.Alert{Title: "still here"})
	select {
	case <-fresh:
	default:
		t.Fatal("stale cancel removed the replacement stream")
	}
}
