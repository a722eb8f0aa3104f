package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/sop-console/activity"
	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/internal/config"
	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	apiConfig  apiclient.Config
	policy     *apiclient.Policy
	workspaces workspaces.Repo
	redis      redis.Cmdable
	httpClient *http.Client
	clock      activity.Clock
	registry   *prometheus.Registry
	metrics    *apiclient.Metrics
}

type Option func(*Server)

// WithRedis keeps session credentials in redis instead of process memory, so
// they survive a console restart.
func WithRedis(client redis.Cmdable) Option {
	return func(s *Server) {
		s.redis = client
	}
}

func WithWorkspaceRepo(repo workspaces.Repo) Option {
	return func(s *Server) {
		s.workspaces = repo
	}
}

// WithHTTPClient sets the client every session client uses for the backend.
func WithHTTPClient(h *http.Client) Option {
	return func(s *Server) {
		s.httpClient = h
	}
}

// WithClock drives idle monitors from c.
func WithClock(c activity.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

func New(cfg config.Config, opts ...Option) (*Server, error) {
	policy, err := apiclient.LoadPolicy(cfg.GetPolicyFile())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to load the error policy: %w", err)
	}

	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		apiConfig:  apiclient.ConfigFrom(cfg, cfg),
		policy:     policy,
		workspaces: workspaces.NewInMemoryRepo(),
		clock:      activity.SystemClock,
		registry:   prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "console_workspaces",
			Help: "Signed in browser sessions held by the console.",
		}, func() float64 { return float64(s.workspaces.Len()) }),
	)
	s.metrics = apiclient.NewMetrics(s.registry)

	s.initRoutes()
	s.logRoutes()

	log.Info().Str("backend", s.apiConfig.BaseURL).Bool("redis", s.redis != nil).Msg("console server ready")
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Registry exposes the server's metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colourMethod(method), path)
}

// getScheme reports http or https, honouring a proxy's X-Forwarded-Proto.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
