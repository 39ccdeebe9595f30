// Package vizserver serves a browser view of a navigation grid and animates
// path searches over a WebSocket, one node expansion per message.
package vizserver

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdrpinto/surfacenav"
	"github.com/pdrpinto/surfacenav/internal/ctxlog"
)

// DefaultMaxSteps bounds the expansions animated for a single request.
const DefaultMaxSteps = 20000

const writeTimeout = 5 * time.Second

//go:embed static/index.html
var staticFS embed.FS

var errStepLimit = errors.New("step limit reached")

// Options defines parameters for a Server.
type Options struct {
	MaxSteps int
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithMaxSteps caps the number of step messages sent per path request.
func WithMaxSteps(maxSteps int) Option {
	return func(options *Options) { options.MaxSteps = maxSteps }
}

// Server exposes a Navigator to the visualiser page.
type Server struct {
	navigator     *surfacenav.Navigator
	logger        *slog.Logger
	options       Options
	upgrader      websocket.Upgrader
	requestSchema *jsonschema.Schema

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer returns a Server reading graphs from navigator. The logger is
// taken from ctx.
func NewServer(ctx context.Context, navigator *surfacenav.Navigator, options ...Option) (*Server, error) {
	serverOptions := Options{MaxSteps: DefaultMaxSteps}
	for _, option := range options {
		option(&serverOptions)
	}
	requestSchema, err := compileSchema("request")
	if err != nil {
		return nil, err
	}
	return &Server{
		navigator: navigator,
		logger:    ctxlog.FromContext(ctx),
		options:   serverOptions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		requestSchema: requestSchema,
		clients:       make(map[*client]struct{}),
	}, nil
}

// Handler routes the page, the grid endpoint and the WebSocket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /grid", s.handleGrid)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, staticFS, "static/index.html")
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	message := newGridMessage(s.navigator.Graph(), s.navigator.Result())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(message)
}

// Broadcast sends the current grid to every connected client. Clients whose
// queue is full miss the update.
func (s *Server) Broadcast() {
	payload, err := json.Marshal(newGridMessage(s.navigator.Graph(), s.navigator.Result()))
	if err != nil {
		s.logger.Error("Failed to encode grid message.", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if !c.offer(payload) {
			s.logger.Warn("Dropped grid update for slow client.", "remote", c.conn.RemoteAddr().String())
		}
	}
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	go c.writeLoop()

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("Visualiser connected.", "remote", conn.RemoteAddr().String())

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		close(c.quit)
		select {
		case <-c.writerDone:
		case <-time.After(500 * time.Millisecond):
		}
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	s.send(c, newGridMessage(s.navigator.Graph(), s.navigator.Result()))

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		request, err := s.decodeRequest(raw)
		if err != nil {
			s.send(c, errorMessage{Type: typeError, Message: err.Error()})
			continue
		}
		if !s.streamPath(c, request) {
			return
		}
	}
}

func (s *Server) decodeRequest(raw []byte) (pathRequest, error) {
	var request pathRequest
	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return request, err
	}
	if err := s.requestSchema.Validate(document); err != nil {
		return request, err
	}
	if err := json.Unmarshal(raw, &request); err != nil {
		return request, err
	}
	return request, nil
}

// streamPath animates one search and finishes with a path message. It reports
// false once the client is gone.
func (s *Server) streamPath(c *client, request pathRequest) bool {
	graph := s.navigator.Graph()
	stepper, err := graph.NewStepper(arrayToVec(request.From), arrayToVec(request.To))
	if err != nil {
		return s.send(c, newPathMessage(nil, 0))
	}

	for steps := 0; !stepper.Done(); steps++ {
		if steps >= s.options.MaxSteps {
			s.logger.Warn("Path animation stopped.", "error", errStepLimit, "steps", steps)
			if !s.send(c, errorMessage{Type: typeError, Message: errStepLimit.Error()}) {
				return false
			}
			return s.send(c, newPathMessage(nil, 0))
		}
		snap := stepper.Step()
		if !s.send(c, stepMessage{
			Type:    typeStep,
			Step:    snap.StepIndex,
			Current: cellOf(snap.Current),
			Open:    setToCells(snap.Open),
			Closed:  setToCells(snap.Closed),
			Done:    snap.Done,
			Found:   snap.Found,
		}) {
			return false
		}
		if snap.Done {
			path := make(surfacenav.Path, 0, len(snap.Path))
			for _, id := range snap.Path {
				node, _ := graph.Node(id)
				path = append(path, node)
			}
			return s.send(c, newPathMessage(path, snap.TotalCost))
		}
	}
	return s.send(c, newPathMessage(nil, 0))
}

func (s *Server) send(c *client, message any) bool {
	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Error("Failed to encode message.", "error", err)
		return false
	}
	return c.enqueue(payload)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	// quit is closed when the read side ends.
	quit chan struct{}
	// writerDone is closed when writeLoop returns.
	writerDone chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:       conn,
		send:       make(chan []byte, 256),
		quit:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

// enqueue waits for room in the queue and reports false once the writer has
// stopped.
func (c *client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	case <-c.writerDone:
		return false
	}
}

// offer queues payload only if there is room.
func (c *client) offer(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) writeLoop() {
	defer close(c.writerDone)
	for {
		select {
		case <-c.quit:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}
