package eventbus

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/atlas/pkg/logging"
)

type scopeChanged struct {
	areaID string
}

func TestPublisher_Publish_NoSubscribers(t *testing.T) {
	type otherEvent struct {
		areaID string
	}
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *scopeChanged) {
		t.Error("should not be called")
	})
	publisher.Publish(&otherEvent{areaID: "x"})

	if output := logBuffer.String(); output == "" {
		t.Error("should have logged")
	} else if !strings.Contains(output, "eventbus.Publish: no matching subscribers") {
		t.Errorf("should have contained no matching subscribers but got: %q", output)
	}
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	called := false
	var got string
	publisher.Subscribe(func(e *scopeChanged) {
		called = true
		got = e.areaID
	})
	publisher.Publish(&scopeChanged{areaID: "area-1"})
	if !called {
		t.Error("should be called")
	}
	if got != "area-1" {
		t.Errorf("expected: %v, got: %v", "area-1", got)
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	handler := func(e *scopeChanged) {
		t.Error("should not be called after unsubscribe")
	}
	publisher.Subscribe(handler)
	if publisher.SubscribersCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}
	publisher.Unsubscribe(handler)
	if publisher.SubscribersCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", publisher.SubscribersCount())
	}
}

func TestPublisher_PublishE_CollectsHandlerErrors(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel)).(EventBusWithError)
	wantErr := errors.New("handler failed")
	publisher.Subscribe(func(e *scopeChanged) error {
		return wantErr
	})
	err := publisher.PublishE(&scopeChanged{areaID: "area-1"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got: %v", err)
	}
}

func TestPublisher_PublishE_NoSubscribers(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel)).(EventBusWithError)
	err := publisher.PublishE(&scopeChanged{areaID: "area-1"})
	if !errors.Is(err, ErrNoSubscribers) {
		t.Fatalf("expected ErrNoSubscribers, got: %v", err)
	}
}

func TestPublisher_RecoversFromPanic(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.ErrorLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *scopeChanged) {
		panic("boom")
	})
	publisher.Publish(&scopeChanged{areaID: "area-1"})
	if !strings.Contains(logBuffer.String(), "panicked") {
		t.Errorf("expected panic log, got: %q", logBuffer.String())
	}
}
