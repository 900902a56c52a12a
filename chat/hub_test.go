package chat

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
		Room: "o1",
	}

	// register client
	hub.register <- client

	// broadcast a test message
	msg := outboundPayload{Action: "chat", Content: "hello test"}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{Room: "o1", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// unregister client
	hub.unregister <- client
}

func TestSendDuringDisconnectDoesNotPanic(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// A client that connects and immediately drops can have history
	// replay racing the unregister path closing its send channel.
	client := &Client{Send: make(chan []byte, 256), Room: "o1"}
	hub.register <- client

	replayDone := make(chan struct{})
	go func() {
		defer close(replayDone)
		for i := 0; i < 500; i++ {
			if !client.trySend([]byte("history")) {
				return
			}
		}
	}()

	hub.unregister <- client
	<-replayDone

	if client.trySend([]byte("late")) {
		t.Fatal("send accepted after close")
	}
}

func TestClientCloseSendIsIdempotent(t *testing.T) {
	client := &Client{Send: make(chan []byte, 1)}
	client.closeSend()
	client.closeSend()

	if client.trySend([]byte("x")) {
		t.Fatal("send accepted after close")
	}
}

func TestHubBroadcastIsRoomScoped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	inRoom := &Client{Send: make(chan []byte, 10), Room: "o1"}
	otherRoom := &Client{Send: make(chan []byte, 10), Room: "o2"}
	hub.register <- inRoom
	hub.register <- otherRoom

	data, _ := json.Marshal(outboundPayload{Action: "chat", Content: "only o1"})
	hub.broadcast <- broadcastMsg{Room: "o1", Data: data}

	select {
	case <-inRoom.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case got := <-otherRoom.Send:
		t.Fatalf("unexpected message in other room: %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}
