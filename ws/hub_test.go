package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		UserID: "user_a",
		Send:   make(chan []byte, 10),
	}

	hub.register <- client

	data, _ := json.Marshal(Envelope{Event: EventNewMessage, Data: "hello test"})
	hub.broadcast <- data

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubLastConnectionWins(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	first := &Client{UserID: "user_u", Send: make(chan []byte, 1)}
	second := &Client{UserID: "user_u", Send: make(chan []byte, 1)}

	hub.register <- first
	hub.register <- second

	waitFor(t, func() bool { return hub.Lookup("user_u") == second })

	// Disconnecting the stale first handle must not evict the second.
	hub.unregister <- first
	waitFor(t, func() bool { return hub.Lookup("user_u") == second })

	hub.unregister <- second
	waitFor(t, func() bool { return hub.Lookup("user_u") == nil })
}

func TestSendToUserAbsentRecipient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	if hub.SendToUser("nobody", EventNewMessage, "dropped") {
		t.Fatal("expected delivery to absent user to report false")
	}
}

func TestSendToUserDeliversEnvelope(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{UserID: "user_b", Send: make(chan []byte, 1)}
	hub.register <- client
	waitFor(t, func() bool { return hub.Lookup("user_b") == client })

	if !hub.SendToUser("user_b", EventSessionReminder, "soon") {
		t.Fatal("expected delivery to registered user")
	}

	select {
	case raw := <-client.Send:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Event != EventSessionReminder {
			t.Fatalf("expected event %q, got %q", EventSessionReminder, env.Event)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for envelope")
	}
}

// Targeted sends must survive the recipient reconnecting or disconnecting
// at the same moment; closing a replaced connection's channel mid-send
// would panic the process.
func TestSendToUserDuringReconnectChurn(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.SendToUser("user_churn", EventNewMessage, "payload")
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		c := &Client{UserID: "user_churn", Send: make(chan []byte, 1)}
		hub.register <- c
		if i%2 == 0 {
			hub.unregister <- c
		}
	}

	close(done)
	wg.Wait()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(1 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
