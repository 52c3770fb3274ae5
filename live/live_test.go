package live

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/swiss-tables/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(quietLogger())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func joinRoom(t *testing.T, hub *Hub) *Client {
	t.Helper()
	c := NewClient(hub, nil, TournamentRoom)
	want := hub.ClientCount(TournamentRoom) + 1
	if !hub.Join(c) {
		t.Fatalf("hub stopped")
	}
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(TournamentRoom) < want {
		if time.Now().After(deadline) {
			t.Fatalf("client was not registered")
		}
		time.Sleep(time.Millisecond)
	}
	return c
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		if !ok {
			t.Fatalf("client channel closed")
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for message")
	}
	return Message{}
}

func TestPublisherBroadcastsLocally(t *testing.T) {
	hub, _ := startHub(t)
	c := joinRoom(t, hub)

	NewPublisher(hub, nil, quietLogger()).Publish(context.Background(), models.Event{
		Type:     models.EventRoundGenerated,
		RoundID:  7,
		MatchIDs: []int{1, 2},
	})

	msg := receive(t, c)
	if msg.Type != string(models.EventRoundGenerated) || msg.RoomID != TournamentRoom {
		t.Fatalf("unexpected message %#v", msg)
	}
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok || payload["round_id"] != float64(7) {
		t.Fatalf("unexpected payload %#v", msg.Payload)
	}
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	hub, cancel := startHub(t)
	c := joinRoom(t, hub)

	cancel()
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("client channel not closed on shutdown")
	}
	if hub.Join(NewClient(hub, nil, TournamentRoom)) {
		t.Fatalf("stopped hub accepted a client")
	}
}

func TestRedisRelayFansOutAcrossHubs(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newInstance := func() (*Publisher, *Client) {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		hub, _ := startHub(t)
		relay := NewRedisRelay(rdb, "", hub, quietLogger())
		if err := relay.Start(ctx); err != nil {
			t.Fatalf("relay.Start: %v", err)
		}
		return NewPublisher(hub, relay, quietLogger()), joinRoom(t, hub)
	}
	pubA, clientA := newInstance()
	_, clientB := newInstance()

	pubA.Publish(ctx, models.Event{Type: models.EventPlayersSwapped, MatchIDs: []int{3, 4}})

	for name, c := range map[string]*Client{"A": clientA, "B": clientB} {
		msg := receive(t, c)
		if msg.Type != string(models.EventPlayersSwapped) {
			t.Fatalf("instance %s: unexpected message %#v", name, msg)
		}
	}
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	client, err := NewRedisClient(context.Background(), fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	client.Close()

	if _, err := NewRedisClient(context.Background(), "not a url"); err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}
