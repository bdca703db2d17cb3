package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"castles/internal/engine"
	"castles/internal/server/game"
	"castles/internal/server/ws"
)

// Server 把 /api/*、websocket 和健康检查挂到同一个 mux 上
type Server struct {
	games *game.Manager
	hub   *ws.Hub
	mux   *http.ServeMux
	srv   *http.Server
}

func NewServer(games *game.Manager, ai *engine.Engine) *Server {
	s := &Server{games: games, mux: http.NewServeMux()}
	s.hub = ws.NewHub(s.stateFor)

	s.mux.Handle("/api/ws", s.hub)
	s.mux.Handle("/api/", NewHandler(games, ai, s.hub))
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// http.Server 在这里建好，Close 早于 Listen 时 Serve 会直接返回
	s.srv = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

func (s *Server) stateFor(gameID string) (any, error) {
	g, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	return snapshotToDTO(g.Snapshot(), 0), nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Hub() *ws.Hub { return s.hub }

// Listen 阻塞直到 Close 被调用或监听失败
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("HTTP listening on %s", ln.Addr())
	err = s.srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close 优雅关闭：先断开 websocket，再等进行中的请求结束
func (s *Server) Close(ctx context.Context) error {
	s.hub.Close()
	return s.srv.Shutdown(ctx)
}
