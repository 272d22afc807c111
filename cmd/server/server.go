package main

import (
	"time"

	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/internal/infrastructure"
)

// Server owns the gallery process: shared infrastructure, the mounted
// modules, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info("routes mounted", "modules", router.Prefixes())

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start launches backends and the listener. Backend connections finish in
// the background; /readyz reports when they have.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		s.infra.Lifecycle.Shutdown(time.Second)
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		if s.infra.Lifecycle.Ready() {
			s.infra.Logger.Info("all subsystems ready")
			return
		}
		s.infra.Logger.Warn("startup finished with unavailable subsystems; readiness probe will fail")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
