package relay

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"gblink/proto"
)

func startTestRelay(t *testing.T) (string, context.CancelFunc) {
	t.Helper()
	cfg := Config{
		Addr:      "localhost:0",
		StorePath: filepath.Join(t.TempDir(), "relay.db"),
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("new relay: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	addr, err := srv.Listen(ctx)
	if err != nil {
		cancel()
		t.Fatalf("listen: %v", err)
	}
	return addr, cancel
}

type testClient struct {
	conn net.Conn
	r    *bufio.Reader
	id   proto.PlayerID
}

// dialRelay connects and consumes the join handshake.
func dialRelay(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	c := &testClient{conn: conn, r: bufio.NewReader(conn)}
	join, ok := c.recv(t).(proto.PlayerJoin)
	if !ok {
		t.Fatal("first line was not a playerJoin")
	}
	c.id = join.ID
	return c
}

func (c *testClient) recv(t *testing.T) proto.Event {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadBytes('\n')
	if err != nil {
		t.Fatalf("client %d read: %v", c.id, err)
	}
	ev, err := proto.Decode(line)
	if err != nil {
		t.Fatalf("client %d decode: %v", c.id, err)
	}
	return ev
}

func (c *testClient) send(t *testing.T, ev proto.Event) {
	t.Helper()
	line, err := proto.Encode(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := c.conn.Write(line); err != nil {
		t.Fatalf("client %d write: %v", c.id, err)
	}
}

func TestRelaySessionFlow(t *testing.T) {
	addr, cancel := startTestRelay(t)
	defer cancel()

	alice := dialRelay(t, addr)
	if alice.id == 0 {
		t.Fatal("ids start at 1")
	}

	bob := dialRelay(t, addr)
	if bob.id == alice.id {
		t.Fatal("duplicate id assigned")
	}

	// Bob's join asks the room to rebroadcast.
	if _, ok := alice.recv(t).(proto.UpdateRequest); !ok {
		t.Fatal("existing session did not receive an update request")
	}

	// Alice's full update reaches bob untouched.
	player := proto.PlayerData{ID: alice.id, Name: []byte{0x80},
		Movement: proto.MovementData{MapID: 1, MapX: 3, MapY: 4}}
	alice.send(t, proto.FullUpdate{ID: alice.id, Player: player})
	fu, ok := bob.recv(t).(proto.FullUpdate)
	if !ok || fu.ID != alice.id || !fu.Player.Equal(player) {
		t.Fatalf("forwarded update = %+v", fu)
	}

	// Battle traffic is addressed, not broadcast.
	carol := dialRelay(t, addr)
	alice.recv(t) // carol's update request
	bob.recv(t)
	carol.send(t, proto.BattleDataRequest{Target: alice.id, Requester: carol.id})
	req, ok := alice.recv(t).(proto.BattleDataRequest)
	if !ok || req.Requester != carol.id {
		t.Fatalf("routed request = %+v", req)
	}
	alice.send(t, proto.BattleDataResponse{Target: carol.id})
	if _, ok := carol.recv(t).(proto.BattleDataResponse); !ok {
		t.Fatal("response not routed back to requester")
	}

	// Disconnects turn into quit events for everyone else.
	carol.conn.Close()
	if quit, ok := bob.recv(t).(proto.PlayerQuit); !ok || quit.ID != carol.id {
		t.Fatalf("expected quit for %d, got %+v", carol.id, quit)
	}
}

func TestRelayDropsGarbageSession(t *testing.T) {
	addr, cancel := startTestRelay(t)
	defer cancel()

	alice := dialRelay(t, addr)
	mallory := dialRelay(t, addr)
	alice.recv(t) // mallory's update request

	mallory.conn.Write([]byte("junk\n"))

	// The relay hangs up on mallory and tells alice.
	if quit, ok := alice.recv(t).(proto.PlayerQuit); !ok || quit.ID != mallory.id {
		t.Fatalf("expected quit for %d, got %+v", mallory.id, quit)
	}
}

// TestRelayJoinLineFirstUnderTraffic joins new sessions while an existing
// one floods full updates. Whatever the interleaving, each joiner's first
// line must be its own playerJoin; anything broadcast before that may only
// arrive after it.
func TestRelayJoinLineFirstUnderTraffic(t *testing.T) {
	addr, cancel := startTestRelay(t)
	defer cancel()

	alice := dialRelay(t, addr)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		player := proto.PlayerData{ID: alice.id, Name: []byte{0x80}}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			player.Movement.WalkCounter = byte(i)
			line, _ := proto.Encode(proto.FullUpdate{ID: alice.id, Player: player})
			if _, err := alice.conn.Write(line); err != nil {
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		c := dialRelay(t, addr) // fails the test unless playerJoin is first
		c.conn.Close()
	}
	close(stop)
	<-done
}

func TestStoreIDsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.db")

	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first, err := store.NextID()
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if first != 1 {
		t.Fatalf("first id = %d, want 1", first)
	}
	second, _ := store.NextID()
	store.Close()

	store, err = OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	third, err := store.NextID()
	if err != nil {
		t.Fatalf("next id after reopen: %v", err)
	}
	if third != second+1 {
		t.Fatalf("id after reopen = %d, want %d", third, second+1)
	}
}
