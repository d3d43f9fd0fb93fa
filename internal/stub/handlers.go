package stub

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var supportedTypes = map[string]bool{
	"supabase":   true,
	"postgresql": true,
	"mysql":      true,
	"mongodb":    true,
}

// Leading verbs that mark a natural-language request as a mutation.
var writeVerbs = map[string]bool{
	"add": true, "insert": true, "create": true, "update": true,
	"change": true, "set": true, "delete": true, "remove": true,
	"drop": true, "rename": true,
}

// currentSession resolves the request's session cookie, or nil.
func (s *Server) currentSession(c *gin.Context) (string, *session) {
	id, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return id, s.sessions[id]
}

// Root serves the API information document.
func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "AI Database Assistant API (stub)",
		"version": "1.0.0",
		"endpoints": gin.H{
			"/connect":    "POST - Connect to database",
			"/disconnect": "POST - Disconnect from database",
			"/query":      "POST - Execute natural language query",
			"/history":    "GET - Get query history",
			"/revert":     "POST - Revert a database change",
			"/health":     "GET - Health check",
		},
	})
}

// Health reports that the stub is up.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "AI Database Assistant is running"})
}

// Connect validates the credential shape the same way the real backend does
// and establishes a cookie session. Any credential value equal to "fail"
// simulates an unreachable database.
func (s *Server) Connect(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing connection data"})
		return
	}

	dbType := req["db_type"]
	if !supportedTypes[dbType] {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unsupported database type"})
		return
	}

	if dbType == "mongodb" {
		if strings.TrimSpace(req["connection_string"]) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing connection string for MongoDB"})
			return
		}
	} else if strings.TrimSpace(req["connection_string"]) == "" {
		for _, field := range []string{"user", "password", "host", "dbname"} {
			if strings.TrimSpace(req[field]) == "" {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": "Missing connection details. Provide either a connection string or individual credentials.",
				})
				return
			}
		}
	}

	for _, value := range req {
		if value == "fail" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Connection failed: could not reach database",
			})
			return
		}
	}

	mode := req["mode"]
	if mode != "read-write" {
		mode = "read-only"
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{dbType: dbType, mode: mode, history: []historyEntry{}}
	s.mu.Unlock()

	c.SetCookie(SessionCookie, id, 7200, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Connection successful"})
}

// Disconnect clears the session. Always succeeds, with or without one.
func (s *Server) Disconnect(c *gin.Context) {
	if id, sess := s.currentSession(c); sess != nil {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully disconnected"})
}

// Query answers with canned text. Mutating requests are rejected in
// read-only mode and recorded in the session history in read-write mode.
func (s *Server) Query(c *gin.Context) {
	_, sess := s.currentSession(c)
	if sess == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not connected to a database. Please connect first."})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing query in request body"})
		return
	}

	text := strings.TrimSpace(req.Query)
	verb := strings.ToLower(strings.Fields(text)[0])

	if writeVerbs[verb] {
		if sess.mode != "read-write" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "This operation requires read-write mode."})
			return
		}
		s.mu.Lock()
		sess.history = append(sess.history, historyEntry{
			Description: "Executed: " + text,
			Timestamp:   time.Now().UTC(),
		})
		n := len(sess.history)
		s.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"response": fmt.Sprintf("Done. Change #%d recorded and revertible from the history log.", n)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": fmt.Sprintf("Ran against the %s database: %q. 3 rows matched.", sess.dbType, text),
	})
}

// History returns the session's change log.
func (s *Server) History(c *gin.Context) {
	_, sess := s.currentSession(c)
	if sess == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not connected to a database."})
		return
	}
	s.mu.Lock()
	history := make([]historyEntry, len(sess.history))
	copy(history, sess.history)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// Revert marks a history entry as reverted.
func (s *Server) Revert(c *gin.Context) {
	_, sess := s.currentSession(c)
	if sess == nil || sess.mode != "read-write" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Must be in read-write mode to revert changes."})
		return
	}

	var req struct {
		HistoryID *int `json:"history_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.HistoryID == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid history ID."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := *req.HistoryID
	if id < 0 || id >= len(sess.history) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid history ID."})
		return
	}
	if sess.history[id].Reverted {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "This change has already been reverted."})
		return
	}
	sess.history[id].Reverted = true
	c.JSON(http.StatusOK, gin.H{"message": "Successfully reverted change: " + sess.history[id].Description})
}
