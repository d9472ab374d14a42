// Package ws hosts the relay's external surface: the WebSocket endpoint
// carrying the frame protocol plus the read-only health and stat routes.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"relay-lab/domain"
	"relay-lab/observability"
	"relay-lab/protocol"
	"relay-lab/repositories"
	"relay-lab/runtime"
	"relay-lab/search"
)

const defaultSearchLimit = 20

type Server struct {
	log               *slog.Logger
	router            *runtime.Router
	journal           repositories.IJournal
	index             *search.Index
	keepAliveInterval time.Duration
	bufferSize        int
	upgrader          websocket.Upgrader
}

func NewServer(log *slog.Logger, router *runtime.Router, journal repositories.IJournal,
	index *search.Index, keepAliveInterval time.Duration, bufferSize int) *Server {
	return &Server{
		log:               log,
		router:            router,
		journal:           journal,
		index:             index,
		keepAliveInterval: keepAliveInterval,
		bufferSize:        bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Session identifiers are opaque and unverified, the origin
			// carries no trust either.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Engine builds the Gin engine with every route registered.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/ws", s.handleWebSocket)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/stats", s.handleStats)
	engine.GET("/conversations/:id/messages", s.handleConversation)
	engine.GET("/search", s.handleSearch)
	return engine
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, host string, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: s.Engine(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("relay server error: %w", err)
	}
	return nil
}

// handleWebSocket upgrades the connection and runs its read loop. Each frame
// goes to the router, transport closure or error is terminal for this
// connection only.
func (s *Server) handleWebSocket(c *gin.Context) {
	wsConn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	sink := NewSink(s.bufferSize)
	conn := runtime.NewConn(sink)
	s.log.Info("Connection opened", "remote", wsConn.RemoteAddr().String())

	go s.writePump(wsConn, sink)

	for {
		_, raw, err := wsConn.ReadMessage()
		if err != nil {
			break
		}
		s.router.HandleFrame(conn, raw)
	}

	sink.Close()
	_ = wsConn.Close()
	s.router.HandleDisconnect(conn)
	s.log.Info("Connection closed", "session_id", conn.SessionID())
}

// writePump is the single writer of the connection. It drains the sink and
// emits a server-side keep-alive frame on a fixed interval to detect
// half-open connections, the ticker dies with the connection.
func (s *Server) writePump(wsConn *websocket.Conn, sink *Sink) {
	ticker := time.NewTicker(s.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sink.Done():
			return
		case frame := <-sink.Frames():
			if err := wsConn.WriteJSON(frame); err != nil {
				sink.Close()
				return
			}
		case <-ticker.C:
			keepAlive := protocol.NewFrame(protocol.TypePong, protocol.PongPayload{At: time.Now().UTC()})
			if err := wsConn.WriteJSON(keepAlive); err != nil {
				sink.Close()
				return
			}
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleStats reads live counts straight from the core's stores, plus the
// process self-stats. Read-only, no mutation.
func (s *Server) handleStats(c *gin.Context) {
	snapshot := s.router.Snapshot()
	journaled, err := s.journal.CountMessages()
	if err != nil {
		s.log.Error("Journal count failed", "error", err)
	}

	response := gin.H{
		"openConnections":    snapshot.OpenConnections,
		"invitations":        snapshot.Invitations,
		"pendingInvitations": snapshot.PendingInvitations,
		"conversations":      snapshot.Conversations,
		"activeSessions":     snapshot.ActiveSessions,
		"journaledMessages":  journaled,
	}
	if stats, err := observability.Self(); err == nil {
		response["process"] = stats
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleConversation(c *gin.Context) {
	id := domain.ConversationID(c.Param("id"))
	var cursor *string
	if raw := c.Query("cursor"); raw != "" {
		cursor = &raw
	}
	messages, next, err := s.journal.GetConversation(id, cursor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "cursor": next})
}

func (s *Server) handleSearch(c *gin.Context) {
	terms := c.Query("q")
	if terms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q parameter"})
		return
	}
	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	hits, err := s.index.Search(c.Request.Context(), terms, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}
