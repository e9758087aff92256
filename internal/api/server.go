// Package api exposes the engine over HTTP: a JSON command/query surface, a
// websocket state stream, and the Prometheus metrics endpoint.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/aeroops/flightcore/internal/engine"
	"github.com/aeroops/flightcore/internal/observability"
	"github.com/aeroops/flightcore/pkg/types"
)

// Server wraps the engine with a gin router.
type Server struct {
	eng      *engine.Engine
	metrics  *observability.Collector
	log      *slog.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer builds the router. The metrics collector may be nil; the
// /metrics endpoint then serves the default registry.
func NewServer(eng *engine.Engine, metrics *observability.Collector, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		eng:     eng,
		metrics: metrics,
		log:     log,
		router:  gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(gin.Recovery())

	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/v1")
	{
		v1.GET("/flight/state", s.getState)
		v1.GET("/flight/controls", s.getControls)
		v1.POST("/flight/controls", s.setControls)
		v1.GET("/flight/stream", s.stream)

		v1.POST("/autopilot/target", s.setAutopilotTarget)

		v1.POST("/emergency", s.declareEmergency)
		v1.DELETE("/emergency", s.clearEmergency)

		v1.POST("/diversion", s.evaluateDiversion)
		v1.POST("/weather", s.setWeather)

		v1.POST("/sim/pause", s.pause)
		v1.POST("/sim/resume", s.resume)
		v1.POST("/sim/reset", s.reset)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// stateEnvelope wraps a snapshot with session metadata.
type stateEnvelope struct {
	FlightID  string            `json:"flight_id"`
	RunState  string            `json:"run_state"`
	Timestamp string            `json:"timestamp"`
	State     types.FlightState `json:"state"`
}

func (s *Server) envelope() stateEnvelope {
	return stateEnvelope{
		FlightID:  s.eng.FlightID().String(),
		RunState:  s.eng.RunState().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		State:     s.eng.Snapshot(),
	}
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.envelope())
}

func (s *Server) getControls(c *gin.Context) {
	c.JSON(http.StatusOK, s.eng.Controls())
}

func (s *Server) setControls(c *gin.Context) {
	var in types.ControlInputs
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid control inputs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.eng.SetManualControls(in))
}

func (s *Server) setAutopilotTarget(c *gin.Context) {
	var in types.AutopilotTarget
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid autopilot target: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.eng.SetAutopilotTarget(in))
}

type emergencyRequest struct {
	Kind string `json:"kind" binding:"required"`
}

func (s *Server) declareEmergency(c *gin.Context) {
	var in emergencyRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}
	status := s.eng.DeclareEmergency(types.ParseEmergencyKind(in.Kind))
	c.JSON(http.StatusOK, status)
}

func (s *Server) clearEmergency(c *gin.Context) {
	s.eng.ClearEmergency()
	c.JSON(http.StatusOK, s.eng.Snapshot().Emergency)
}

func (s *Server) evaluateDiversion(c *gin.Context) {
	var q types.DiversionQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid diversion query: " + err.Error()})
		return
	}
	res, err := s.eng.EvaluateDiversion(q)
	if err != nil {
		if errors.Is(err, types.ErrPrecondition) {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) setWeather(c *gin.Context) {
	var w types.Weather
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weather: " + err.Error()})
		return
	}
	s.eng.SetWeather(w)
	c.JSON(http.StatusOK, w)
}

func (s *Server) pause(c *gin.Context) {
	s.eng.Pause()
	c.JSON(http.StatusOK, gin.H{"run_state": s.eng.RunState().String()})
}

func (s *Server) resume(c *gin.Context) {
	s.eng.Resume()
	c.JSON(http.StatusOK, gin.H{"run_state": s.eng.RunState().String()})
}

func (s *Server) reset(c *gin.Context) {
	s.eng.Reset()
	c.JSON(http.StatusOK, s.envelope())
}

// stream upgrades to a websocket and pushes every committed snapshot until
// the client goes away. Slow clients miss frames rather than backing up the
// tick loop.
func (s *Server) stream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch, unsub := s.eng.Subscribe()
	defer unsub()

	// Drain client frames so pings and close messages are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(st); err != nil {
				return
			}
		}
	}
}
