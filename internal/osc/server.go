package osc

import (
	"context"
	"errors"
	"net"

	"github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog/log"
)

// Server is the inbound UDP control endpoint. Every received packet goes
// through the Router, which enqueues intents for the render loop.
type Server struct {
	addr   string
	router *Router
}

// NewServer creates a control server listening on addr ("host:port").
func NewServer(addr string, router *Router) *Server {
	return &Server{addr: addr, router: router}
}

// Run starts the listener and blocks until the context is cancelled. The
// socket is closed on cancellation, which unblocks the serve loop.
func (s *Server) Run(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return err
	}

	log.Info().Str("addr", s.addr).Msg("Starting OSC control server")

	go func() {
		<-ctx.Done()
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("OSC server socket close error")
		}
	}()

	srv := &osc.Server{Addr: s.addr, Dispatcher: s.router}
	if err := srv.Serve(conn); err != nil && !errors.Is(err, net.ErrClosed) {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
