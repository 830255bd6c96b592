package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/google/uuid"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func startTestNATS(t *testing.T) string {
	t.Helper()

	srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)

	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}

	return srv.ClientURL()
}

func testEvent() *entity.DecisionEvent {
	status := &entity.Status{ID: uuid.New(), PictureID: uuid.New(), Authorised: true}
	return entity.NewDecisionEvent(entity.StatusAuthorisationChanged, status, time.Now().UTC())
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher

	if err := p.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNATSPublisher(t *testing.T) {
	url := startTestNATS(t)

	sub, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connect subscriber: %v", err)
	}
	defer sub.Close()

	msgs := make(chan *nats.Msg, 1)
	if _, err = sub.ChanSubscribe("access_gate.>", msgs); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = sub.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	pub, err := NewNATSPublisher(url, "access_gate")
	if err != nil {
		t.Fatalf("NewNATSPublisher: %v", err)
	}

	event := testEvent()
	if err = pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err = pub.conn.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err = pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case msg := <-msgs:
		if msg.Subject != "access_gate.status.authorisation_changed" {
			t.Errorf("subject = %q", msg.Subject)
		}
		var got entity.DecisionEvent
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.StatusID != event.StatusID || !got.Authorised {
			t.Errorf("got %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestKafkaMessage(t *testing.T) {
	event := testEvent()

	msg, err := kafkaMessage("access-gate.decisions", event)
	if err != nil {
		t.Fatalf("kafkaMessage: %v", err)
	}
	if msg.Topic != "access-gate.decisions" {
		t.Errorf("topic = %q", msg.Topic)
	}
	if string(msg.Key) != event.StatusID.String() {
		t.Errorf("key = %q, want status id", msg.Key)
	}

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["event_type"] != string(entity.StatusAuthorisationChanged) || headers["event_id"] != event.ID.String() {
		t.Errorf("headers = %v", headers)
	}
}
