// Package httpapi exposes the emulated backend over HTTP and websocket.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/common"
	"github.com/braindumpster/braindumpster-go/internal/emulator/auth"
	"github.com/braindumpster/braindumpster-go/internal/emulator/pipeline"
	"github.com/braindumpster/braindumpster-go/internal/emulator/store"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

const userIDKey = "userID"

// Server wires auth, the document store and the pipeline behind the HTTP
// surface the client talks to.
type Server struct {
	auth     *auth.Manager
	store    *store.Store
	pipeline *pipeline.Runner
	log      logging.Logger

	maxUploadBytes int64
	upgrader       websocket.Upgrader
}

func NewServer(am *auth.Manager, st *store.Store, pl *pipeline.Runner, log logging.Logger) *Server {
	if log == nil {
		log = logging.New()
	}
	return &Server{
		auth:           am,
		store:          st,
		pipeline:       pl,
		log:            log,
		maxUploadBytes: common.MaxAudioUploadBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/register", s.handleRegister)
	r.POST("/auth/login", s.handleLogin)
	r.POST("/auth/refresh", s.handleRefresh)

	authed := r.Group("/", s.requireAuth)
	authed.POST("/analyze", s.handleAnalyze)
	authed.POST("/chat", s.handleChat)
	authed.GET("/recordings", s.handleList)
	authed.GET("/recordings/:id", s.handleGet)
	authed.DELETE("/recordings/:id", s.handleDelete)
	authed.GET("/ws/recordings/:id", s.handleWS)

	return r
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))

	userID, err := s.auth.VerifyAccess(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		Password    string `json:"password" binding:"required"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if err := s.auth.Register(req.Email, req.Password, req.DisplayName); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	userID, access, refresh, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":       userID,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	access, refresh, err := s.auth.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	userID := c.GetString(userIDKey)

	if c.Request.ContentLength > s.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio payload too large"})
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio part is required"})
		return
	}
	defer file.Close()

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio"})
		return
	}
	if size > s.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio payload too large"})
		return
	}

	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)
	if duration < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration must not be negative"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		base := filepath.Base(header.Filename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	rec := models.Recording{
		ID:       uuid.NewString(),
		Title:    title,
		Date:     time.Now().UTC(),
		Duration: duration,
		Type:     models.TypeMeeting,
		Status:   models.StatusProcessing,
	}

	snapshot := s.pipeline.Start(c.Request.Context(), userID, rec, size)
	s.log.Info(c.Request.Context(), "analysis started",
		"recordingId", snapshot.ID, "userId", userID, "bytes", size, "status", snapshot.Status)
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleChat(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var req struct {
		RecordingID string `json:"recordingId" binding:"required"`
		Message     string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recordingId and message are required"})
		return
	}

	rec, err := s.store.Get(userID, req.RecordingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}

	answer := "The analysis is still in progress, ask again in a moment."
	if rec.Summary != nil {
		answer = "Based on " + strconv.Quote(rec.Title) + ": " + rec.Summary.Brief
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) handleList(c *gin.Context) {
	userID := c.GetString(userIDKey)
	c.JSON(http.StatusOK, gin.H{"recordings": s.store.List(userID)})
}

func (s *Server) handleGet(c *gin.Context) {
	userID := c.GetString(userIDKey)

	rec, err := s.store.Get(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDelete(c *gin.Context) {
	userID := c.GetString(userIDKey)

	if err := s.store.Delete(userID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleWS streams snapshots for one recording: the current state first,
// then every update until a terminal snapshot or client disconnect.
func (s *Server) handleWS(c *gin.Context) {
	userID := c.GetString(userIDKey)
	recordingID := c.Param("id")

	sub, err := s.store.Subscribe(userID, recordingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	defer sub.Close()

	current, err := s.store.Get(userID, recordingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// detect client disconnect
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(current); err != nil {
		return
	}
	if current.Status.Terminal() {
		s.closeGracefully(conn)
		return
	}

	for {
		select {
		case rec, ok := <-sub.C():
			if !ok {
				return
			}
			if err := conn.WriteJSON(rec); err != nil {
				return
			}
			if rec.Status.Terminal() {
				s.closeGracefully(conn)
				return
			}
		case <-gone:
			return
		}
	}
}

func (s *Server) closeGracefully(conn *websocket.Conn) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}
