// Package apitest runs an in-process stand-in for the shop REST API. It records
// every request so tests can assert on payloads and on calls that must not
// happen.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const BasePath = "/api"

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Multipart parses a recorded multipart/form-data body.
func (r Request) Multipart() (*multipart.Form, error) {
	_, params, err := mime.ParseMediaType(r.Header.Get(echo.HeaderContentType))
	if err != nil {
		return nil, err
	}
	return multipart.NewReader(bytes.NewReader(r.Body), params["boundary"]).ReadForm(10 << 20)
}

// JSON decodes a recorded JSON body into a generic map.
func (r Request) JSON() (map[string]any, error) {
	var m map[string]any
	err := json.Unmarshal(r.Body, &m)
	return m, err
}

type Server struct {
	*httptest.Server
	Echo *echo.Echo
	DB   *gorm.DB

	mu       sync.Mutex
	requests []Request
	failures map[string]int
	stats    map[string]any
}

// NewServer starts the fake collaborator and stops it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("apitest: open db: %v", err)
	}
	if err := db.AutoMigrate(&productRow{}, &userRow{}); err != nil {
		t.Fatalf("apitest: migrate: %v", err)
	}

	s := &Server{
		Echo:     echo.New(),
		DB:       db,
		failures: map[string]int{},
		stats:    map[string]any{},
	}
	s.Echo.HideBanner = true
	s.Echo.Use(s.record)
	s.register()

	s.Server = httptest.NewServer(s.Echo)
	t.Cleanup(func() {
		s.Server.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return s
}

// BaseURL is what the console would be configured with.
func (s *Server) BaseURL() string { return s.Server.URL + BasePath }

func (s *Server) register() {
	api := s.Echo.Group(BasePath)

	api.GET("/products", s.listProducts)
	api.POST("/products", s.createProduct)
	api.PUT("/products/:id", s.updateProduct)
	api.DELETE("/products/:id", s.deleteProduct)

	api.GET("/users", s.listUsers)
	api.POST("/users", s.createUser)
	api.PUT("/users/:id", s.updateUser)
	api.DELETE("/users/:id", s.deleteUser)

	api.GET("/stats/:series", s.getStats)
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))

		path := strings.TrimPrefix(req.URL.Path, BasePath)
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: req.Method,
			Path:   path,
			Header: req.Header.Clone(),
			Body:   body,
		})
		status, fail := s.failures[req.Method+" "+path]
		s.mu.Unlock()

		if fail {
			return echo.NewHTTPError(status, "injected failure")
		}
		return next(c)
	}
}

// Requests returns a copy of everything received so far. Paths are relative
// to BasePath.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path. An empty method
// matches any method, an empty path any path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if (method == "" || r.Method == method) && (path == "" || r.Path == path) {
			n++
		}
	}
	return n
}

// Last returns the most recent request with the given method.
func (s *Server) Last(method string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Fail makes every later request to method+path answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

// SetStats sets the data array answered for GET /stats/{series}.
func (s *Server) SetStats(series string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[series] = data
}

func (s *Server) getStats(c echo.Context) error {
	s.mu.Lock()
	data, ok := s.stats[c.Param("series")]
	s.mu.Unlock()
	if !ok {
		data = []any{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": data})
}
