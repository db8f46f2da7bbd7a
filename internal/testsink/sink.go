// Package testsink runs an in-process telemetry endpoint that records what it
// receives. It is meant for tests.
package testsink

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battprobe/pkg/telemetry"
)

// Path is the route reports are accepted on.
const Path = "/telemetry"

// Request is one recorded report.
type Request struct {
	Header  http.Header
	Body    []byte
	Payload telemetry.Payload
}

// Sink answers every report with a fixed status code.
type Sink struct {
	*httptest.Server

	status   int
	mu       sync.Mutex
	requests []Request
}

// New starts a Sink replying with status. Call Close when done.
func New(status int) *Sink {
	s := &Sink{status: status}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Sink) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logrus.StandardLogger()))
	router.POST(Path, s.report)

	return router
}

func (s *Sink) report(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	req := Request{Header: c.Request.Header.Clone(), Body: body}
	if err := json.Unmarshal(body, &req.Payload); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	c.IndentedJSON(s.status, gin.H{"received": true})
}

// ReportURL returns the full report URL.
func (s *Sink) ReportURL() string {
	return s.Server.URL + Path
}

// Requests returns the reports received so far.
func (s *Sink) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		stop := time.Since(start)
		latency := int(math.Ceil(float64(stop.Nanoseconds()) / 1000000.0))

		logger.WithFields(logrus.Fields{
			"statusCode": c.Writer.Status(),
			"latency":    latency,
			"method":     c.Request.Method,
			"path":       path,
		}).Debug("sink received request")
	}
}
