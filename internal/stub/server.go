// Package stub is a canned stand-in for the assistant backend. It speaks the
// same HTTP/JSON contract (/connect, /disconnect, /query, /history, /revert,
// /health) with cookie sessions and fabricated data, so the client and its
// tests can run without a real backend or an LLM.
package stub

import (
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SessionCookie names the cookie that carries the stub's session id.
const SessionCookie = "querydesk_session"

// historyEntry matches the wire shape of a recorded mutation.
type historyEntry struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Reverted    bool      `json:"reverted"`
}

// session is the server-side state a connect call establishes.
type session struct {
	dbType  string
	mode    string
	history []historyEntry
}

// Server holds all live stub sessions.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer creates an empty stub backend.
func NewServer() *Server {
	return &Server{sessions: make(map[string]*session)}
}

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(s *Server) *gin.Engine {
	router := gin.Default() // Includes Logger and Recovery

	// Generous limit: the client fires bursts of query + history calls.
	ratelimiter := NewRateLimiter(120, time.Minute)
	router.Use(RateLimitMiddleware(ratelimiter))

	// Mirror the real backend's CORS setup for local web frontends.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/", s.Root)
	router.GET("/health", s.Health)
	router.POST("/connect", s.Connect)
	router.POST("/disconnect", s.Disconnect)
	router.POST("/query", s.Query)
	router.GET("/history", s.History)
	router.POST("/revert", s.Revert)

	return router
}
