// Package server exposes the one-line to deb822 converter over HTTP.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/etnz/apt-sources/sources"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "127.0.0.1:8822"

// maxInputBytes bounds the size of a conversion request body.
const maxInputBytes = 1 << 20

// Server provides an HTTP API around a sources.Converter.
// The converter is shared by all requests.
type Server struct {
	addr      string
	conv      *sources.Converter
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server. A nil converter performs plain
// conversions.
func NewServer(addr string, conv *sources.Converter) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if conv == nil {
		conv = &sources.Converter{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		conv:   conv,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler returns the routes of the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/example", s.handleExample)
	r.POST("/api/convert", s.handleConvert)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the address the server listens on, once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleExample(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"input":  sources.Example,
		"output": s.conv.Convert(sources.Example),
	})
}

// handleConvert converts a JSON {"input": "..."} body, or a text/plain body
// which is answered in text/plain.
func (s *Server) handleConvert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxInputBytes)

	if strings.HasPrefix(c.ContentType(), "text/plain") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "input too large\n")
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(s.conv.Convert(string(body))))
		return
	}

	var req struct {
		Input *string `json:"input"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Input == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing input field"})
		return
	}

	results := s.conv.ConvertLines(*req.Input)
	counts := map[sources.Kind]int{}
	for _, r := range results {
		counts[r.Kind]++
	}

	c.JSON(http.StatusOK, gin.H{
		"output":      sources.Join(results),
		"entries":     counts[sources.KindEntry],
		"comments":    counts[sources.KindComment],
		"unparseable": counts[sources.KindUnparseable],
	})
}
