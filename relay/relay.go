// Package relay is the meeting point for gblink clients: a TCP server that
// assigns player ids and fans newline-delimited protocol events out between
// sessions. It keeps no game state beyond each session's last full update;
// the clients reconcile everything else among themselves.
package relay

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"gblink/gbtext"
	"gblink/proto"
)

type session struct {
	id   proto.PlayerID
	conn net.Conn
	out  chan []byte

	// last full update seen from this session, for the status surfaces.
	last proto.PlayerData
	seen bool
}

type Server struct {
	cfg   Config
	store *Store

	mu       sync.Mutex
	sessions map[proto.PlayerID]*session
}

// Start brings up a relay with the environment configuration and returns
// the address clients should dial. The embedded relay inside the client
// uses this; a dedicated relay process is just a thin main around it.
func Start(ctx context.Context) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	srv, err := New(cfg)
	if err != nil {
		return "", err
	}
	return srv.Listen(ctx)
}

func New(cfg Config) (*Server, error) {
	store, err := OpenStore(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open relay store: %w", err)
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		sessions: make(map[proto.PlayerID]*session),
	}, nil
}

// Listen starts the TCP accept loop and the HTTP status side, returning
// the dialable address of the TCP listener.
func (s *Server) Listen(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.store.Close()
		return "", err
	}
	go s.acceptLoop(ctx, ln)
	if s.cfg.HTTPAddr != "" {
		go s.serveHTTP(ctx)
	}
	go func() {
		<-ctx.Done()
		ln.Close()
		s.store.Close()
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("localhost:%d", port), nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("relay accept: %v", err)
			}
			return
		}
		go s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	id, err := s.store.NextID()
	if err != nil {
		log.Printf("relay: assign id: %v", err)
		return
	}
	sess := &session{id: id, conn: conn, out: make(chan []byte, 64)}
	go sess.writeLoop(ctx)

	// Handshake: the join line must be the first thing the client reads, so
	// it is queued before the session is visible to any broadcast. Then the
	// room is asked to rebroadcast so the joiner fills its table within one
	// pass.
	sess.send(mustEncode(proto.PlayerJoin{ID: id}))

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	log.Printf("relay: player %d joined from %s", id, conn.RemoteAddr())

	s.broadcast(id, mustEncode(proto.UpdateRequest{}))

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			break
		}
		ev, err := proto.Decode(line)
		if err != nil {
			log.Printf("relay: player %d sent garbage: %v", id, err)
			break
		}
		s.route(sess, ev, line)
	}

	s.mu.Lock()
	delete(s.sessions, id)
	name := gbtext.Decode(sess.last.Name)
	s.mu.Unlock()

	s.broadcast(id, mustEncode(proto.PlayerQuit{ID: id}))
	if err := s.store.MarkSeen(id, name, conn.RemoteAddr().String()); err != nil {
		log.Printf("relay: mark seen: %v", err)
	}
	log.Printf("relay: player %d left", id)
}

// route forwards one decoded event. Battle traffic is addressed to a single
// session; everything else fans out to all other sessions.
func (s *Server) route(from *session, ev proto.Event, line []byte) {
	switch ev := ev.(type) {
	case proto.FullUpdate:
		s.mu.Lock()
		from.last = ev.Player
		from.seen = true
		s.mu.Unlock()
		s.broadcast(from.id, line)
	case proto.BattleDataRequest:
		s.sendTo(ev.Target, line)
	case proto.BattleDataResponse:
		s.sendTo(ev.Target, line)
	default:
		s.broadcast(from.id, line)
	}
}

func (s *Server) broadcast(from proto.PlayerID, line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if id == from {
			continue
		}
		sess.send(line)
	}
}

func (s *Server) sendTo(id proto.PlayerID, line []byte) {
	s.mu.Lock()
	sess := s.sessions[id]
	s.mu.Unlock()
	if sess != nil {
		sess.send(line)
	}
}

// snapshot lists the last known state of every connected session.
func (s *Server) snapshot() []proto.PlayerData {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]proto.PlayerData, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.seen {
			out = append(out, sess.last)
		}
	}
	return out
}

// send queues a line without blocking the caller; a slow session drops
// lines rather than stalling the relay.
func (sess *session) send(line []byte) {
	select {
	case sess.out <- line:
	default:
	}
}

func (sess *session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-sess.out:
			if _, err := sess.conn.Write(line); err != nil {
				return
			}
		}
	}
}

func mustEncode(ev proto.Event) []byte {
	line, err := proto.Encode(ev)
	if err != nil {
		panic(err)
	}
	return line
}
