package stream

import (
	"context"
	"io"
	"log"
	"math"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"terrasculpt/internal/sims/landscape"
)

func testWorld(t *testing.T) *landscape.World {
	t.Helper()
	cfg := landscape.DefaultConfig()
	cfg.Width = 10
	cfg.Height = 6
	cfg.Seed = 11
	cfg.Params.TributaryCount = 1
	w := landscape.NewWithConfig(cfg)
	w.Reset(0)
	if err := w.Err(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return w
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readMesh(t *testing.T, conn *websocket.Conn) MeshData {
	t.Helper()
	var m MeshData
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read mesh: %v", err)
	}
	if m.Type != "mesh" {
		t.Fatalf("expected mesh message, got %q", m.Type)
	}
	return m
}

func readReply(t *testing.T, conn *websocket.Conn) Reply {
	t.Helper()
	var r Reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	return r
}

func TestInitialMeshOnConnect(t *testing.T) {
	world := testWorld(t)
	srv := httptest.NewServer(New(world, time.Hour, quietLogger()).Handler())
	t.Cleanup(srv.Close)

	m := readMesh(t, dial(t, srv))
	if got, want := len(m.Vertices), world.Grid().VertexCount(); got != want {
		t.Fatalf("vertices = %d, want %d", got, want)
	}
	if got, want := len(m.Indices), 10*6*6; got != want {
		t.Fatalf("indices = %d, want %d", got, want)
	}
	if len(m.Rivers) != 2 {
		t.Fatalf("rivers = %d, want main river plus one tributary", len(m.Rivers))
	}
}

func TestSculptCommandBroadcastsDirtyVertices(t *testing.T) {
	world := testWorld(t)
	world.Grid().ClearDirty()
	srv := httptest.NewServer(New(world, time.Hour, quietLogger()).Handler())
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	readMesh(t, conn)

	at, _ := world.VertexWorld(5, 3)
	cmd := Command{Type: "sculpt", X: at[0], Y: at[1], Z: at[2], Radius: 150, Delta: 10}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply := readReply(t, conn)
	if reply.Type != "ack" || reply.Command != "sculpt" || reply.Touched == 0 {
		t.Fatalf("reply = %+v", reply)
	}
	m := readMesh(t, conn)
	if len(m.Dirty) != reply.Touched {
		t.Fatalf("dirty = %d, touched = %d", len(m.Dirty), reply.Touched)
	}
	if len(world.Grid().DirtyIndices()) != 0 {
		t.Fatalf("flush should clear the dirty set")
	}
}

func TestUnknownCommandReportsError(t *testing.T) {
	srv := httptest.NewServer(New(testWorld(t), time.Hour, quietLogger()).Handler())
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	readMesh(t, conn)
	if err := conn.WriteJSON(Command{Type: "terraform"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply := readReply(t, conn)
	if reply.Type != "error" || !strings.Contains(reply.Error, "terraform") {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestApplyCommands(t *testing.T) {
	world := testWorld(t)
	s := New(world, time.Hour, quietLogger())

	reply, changed := s.Apply(Command{Type: "erode", Count: 2})
	if reply.Type != "ack" || !changed || world.Steps() != 2 {
		t.Fatalf("erode: reply=%+v changed=%v steps=%d", reply, changed, world.Steps())
	}

	at, _ := world.VertexWorld(2, 2)
	if reply, _ := s.Apply(Command{Type: "erode_at", X: at[0], Y: at[1], Radius: 250}); reply.Type != "ack" || reply.Touched == 0 {
		t.Fatalf("erode_at: %+v", reply)
	}

	target := -5.0
	reply, changed = s.Apply(Command{Type: "level", X: at[0], Y: at[1], Radius: 100, Target: &target})
	if reply.Type != "ack" || !changed {
		t.Fatalf("level: %+v", reply)
	}
	i, _ := world.Grid().Index(2, 2)
	if got := world.Grid().Heights()[i]; math.Abs(got-target) > 1e-9 {
		t.Fatalf("levelled centre = %v, want %v", got, target)
	}

	paths := len(world.Paths())
	if reply, _ := s.Apply(Command{Type: "tributary", X: 50, Y: 50}); reply.Type != "ack" {
		t.Fatalf("tributary: %+v", reply)
	}
	if len(world.Paths()) != paths+1 {
		t.Fatalf("tributary not recorded")
	}

	if reply, _ := s.Apply(Command{Type: "level", X: -1e6, Y: 0}); reply.Type != "error" {
		t.Fatalf("level outside the grid should fail: %+v", reply)
	}

	if reply, changed := s.Apply(Command{Type: "reset"}); reply.Type != "ack" || !changed || world.Steps() != 0 {
		t.Fatalf("reset: %+v steps=%d", reply, world.Steps())
	}
}

func TestRunStepsWhileEnabled(t *testing.T) {
	world := testWorld(t)
	s := New(world, 5*time.Millisecond, quietLogger())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	readMesh(t, conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	if err := conn.WriteJSON(Command{Type: "run", Enable: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// The ack and the first broadcast may arrive in either order.
	acked, stepped := false, false
	for !acked || !stepped {
		var msg struct {
			Type string `json:"type"`
			Step int    `json:"step"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch msg.Type {
		case "ack":
			acked = true
		case "mesh":
			stepped = stepped || msg.Step >= 1
		default:
			t.Fatalf("unexpected message %q", msg.Type)
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Run returned %v", err)
	}
}

func TestFlushWithoutClients(t *testing.T) {
	world := testWorld(t)
	s := New(world, 0, nil)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if s.Clients() != 0 {
		t.Fatalf("clients = %d", s.Clients())
	}
	if len(world.Grid().DirtyIndices()) != 0 {
		t.Fatalf("flush should clear the dirty set")
	}
}

func TestFlushSerialisesWithCommands(t *testing.T) {
	world := testWorld(t)
	s := New(world, time.Hour, quietLogger())
	at, _ := world.VertexWorld(4, 3)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Apply(Command{Type: "sculpt", X: at[0], Y: at[1], Radius: 150, Delta: 1})
		}()
		go func() {
			defer wg.Done()
			if err := s.Flush(); err != nil {
				t.Errorf("flush: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestFullMeshPrecedesBroadcasts(t *testing.T) {
	world := testWorld(t)
	s := New(world, time.Millisecond, quietLogger())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	s.Apply(Command{Type: "run", Enable: true})

	for range 5 {
		conn := dial(t, srv)
		first := readMesh(t, conn)
		if len(first.Vertices) != world.Grid().VertexCount() {
			t.Fatalf("initial mesh has %d vertices", len(first.Vertices))
		}
		last := first.Step
		for range 3 {
			m := readMesh(t, conn)
			if m.Step <= last {
				t.Fatalf("broadcast step %d arrived after step %d", m.Step, last)
			}
			last = m.Step
		}
		conn.Close()
	}
}
