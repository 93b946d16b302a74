// Package stream serves a terrain world over a websocket. Clients receive
// mesh sections as JSON and send editing commands back on the same socket.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"terrasculpt/internal/terrain"
)

// Terrain is the world surface the server drives. *landscape.World
// satisfies it.
type Terrain interface {
	Reset(seed int64)
	Step()
	Err() error
	Steps() int
	Paths() []terrain.Path
	Brush() (radius, strength float64)
	Mesh() terrain.Mesh
	Flush(sink terrain.Sink) error
	ErodeAt(world mgl64.Vec3, radius float64) (*terrain.ErosionField, error)
	SculptAt(world mgl64.Vec3, radius, delta float64) ([]int, error)
	LevelAt(world mgl64.Vec3, radius, target float64) ([]int, error)
	HeightAt(world mgl64.Vec3) (float64, error)
	AddTributaryAt(world mgl64.Vec3) (terrain.Path, error)
}

// MeshData is the mesh message pushed to every client.
type MeshData struct {
	Type     string         `json:"type"`
	Vertices []mgl64.Vec3   `json:"vertices"`
	Indices  []int32        `json:"indices"`
	Normals  []mgl64.Vec3   `json:"normals"`
	Dirty    []int          `json:"dirty"`
	Rivers   []terrain.Path `json:"rivers"`
	Step     int            `json:"step"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server owns one world. All world access is serialised by mu.
type Server struct {
	mu      sync.Mutex
	world   Terrain
	running bool

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	interval time.Duration
	log      *log.Logger
}

// New returns a server for world. interval is the erosion tick used by Run
// while continuous erosion is enabled. A nil logger uses log.Default().
func New(world Terrain, interval time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Server{
		world:    world,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		interval: interval,
		log:      logger,
	}
}

// Handler routes /ws to the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Clients returns the number of connected sockets.
func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Flush uploads the world's pending changes to every client.
func (s *Server) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Flush(meshSink{s})
}

// meshSink is the terrain.Sink the world flushes into. Its Upload reads the
// world, so it is only handed out while mu is held.
type meshSink struct{ s *Server }

func (k meshSink) Upload(m terrain.Mesh) error {
	payload, err := json.Marshal(k.s.meshData(m))
	if err != nil {
		return fmt.Errorf("encode mesh: %w", err)
	}
	k.s.broadcast(payload)
	return nil
}

// meshData must be called with mu held.
func (s *Server) meshData(m terrain.Mesh) MeshData {
	return MeshData{
		Type:     "mesh",
		Vertices: m.Vertices,
		Indices:  m.Triangles,
		Normals:  m.Normals,
		Dirty:    m.Dirty,
		Rivers:   s.world.Paths(),
		Step:     s.world.Steps(),
	}
}

func (s *Server) broadcast(payload []byte) {
	s.clientsMu.RLock()
	var failed []*websocket.Conn
	for conn, mutex := range s.clients {
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, payload)
		mutex.Unlock()
		if err != nil {
			s.log.Printf("stream: write to %s: %v", conn.RemoteAddr(), err)
			failed = append(failed, conn)
		}
	}
	s.clientsMu.RUnlock()

	for _, conn := range failed {
		s.drop(conn)
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.clientsMu.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	if ok {
		conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("stream: upgrade: %v", err)
		return
	}
	defer conn.Close()
	connMutex := &sync.Mutex{}

	// Hold mu until the socket joins the broadcast set so no dirty-only
	// update reaches it before the full mesh.
	s.mu.Lock()
	err = s.send(conn, connMutex, s.meshData(s.world.Mesh()))
	if err == nil {
		s.clientsMu.Lock()
		s.clients[conn] = connMutex
		s.clientsMu.Unlock()
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Printf("stream: initial mesh: %v", err)
		return
	}
	defer s.drop(conn)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Printf("stream: read: %v", err)
			}
			return
		}
		reply, changed := s.Apply(cmd)
		if err := s.send(conn, connMutex, reply); err != nil {
			s.log.Printf("stream: reply: %v", err)
			return
		}
		if changed {
			if err := s.Flush(); err != nil {
				s.log.Printf("stream: flush: %v", err)
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, mutex *sync.Mutex, v any) error {
	mutex.Lock()
	defer mutex.Unlock()
	return conn.WriteJSON(v)
}

// Run steps the world every interval while continuous erosion is enabled,
// broadcasting after each step, until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.mu.Lock()
			if !s.running {
				s.mu.Unlock()
				continue
			}
			s.world.Step()
			if err := s.world.Flush(meshSink{s}); err != nil {
				s.log.Printf("stream: flush: %v", err)
			}
			s.mu.Unlock()
		}
	}
}

// ListenAndServe serves Handler on addr until ctx is done, running the
// erosion loop alongside.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	go s.Run(ctx)

	s.log.Printf("stream: serving on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
