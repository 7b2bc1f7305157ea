package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"sync/atomic"

	"golang.org/x/time/rate"

	"gblink/proto"
)

// tcpConn is the active connection to the relay.
var tcpConn net.Conn

// localID is the identity the relay assigned at handshake. Immutable for
// the rest of the session.
var localID proto.PlayerID

var (
	inbound  = make(chan proto.Event, 64)
	outbound = make(chan proto.Event, 64)

	bytesSent atomic.Uint64
	bytesRecv atomic.Uint64
)

// outLimiter paces the writer so a runaway caller cannot flood the relay.
// Steady state is one full update per network tick; this is far above that.
var outLimiter = rate.NewLimiter(240, 16)

// handshake consumes the first line from the relay, which must be a
// playerJoin carrying our assigned id. Anything else aborts the connection
// attempt.
func handshake(r *bufio.Reader) (proto.PlayerID, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return 0, fmt.Errorf("handshake read: %w", err)
	}
	ev, err := proto.Decode(line)
	if err != nil {
		return 0, fmt.Errorf("handshake: %w", err)
	}
	join, ok := ev.(proto.PlayerJoin)
	if !ok {
		return 0, fmt.Errorf("handshake: expected playerJoin, got %T", ev)
	}
	return join.ID, nil
}

// connectRelay dials the relay, performs the join handshake and starts the
// two network flows. The reader and writer fail independently: a dead
// reader leaves the writer sending best-effort, and vice versa.
func connectRelay(ctx context.Context, host string) error {
	conn, err := net.Dial("tcp", host)
	if err != nil {
		return fmt.Errorf("connect %s: %v", host, err)
	}
	reader := bufio.NewReader(conn)
	id, err := handshake(reader)
	if err != nil {
		conn.Close()
		return err
	}
	tcpConn = conn
	localID = id
	logDebug("joined relay %s as player %d", host, id)

	go readLoop(reader)
	go writeLoop(ctx, conn)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	return nil
}

// readLoop decodes one event per line and hands it to the driver's inbound
// pass. A read or decode failure ends only this flow.
func readLoop(r *bufio.Reader) {
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				logError("relay read: %v", err)
			} else {
				logError("disconnected from relay")
			}
			return
		}
		bytesRecv.Add(uint64(len(line)))
		ev, err := proto.Decode(line)
		if err != nil {
			logError("relay sent garbage: %v", err)
			return
		}
		recordEvent(line)
		inbound <- ev
	}
}

// writeLoop drains the outbound queue onto the wire. Send errors are logged
// and swallowed per message: there is no retransmission layer, delivery is
// at most once.
func writeLoop(ctx context.Context, conn net.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-outbound:
			if err := outLimiter.Wait(ctx); err != nil {
				return
			}
			line, err := proto.Encode(ev)
			if err != nil {
				logError("encode event: %v", err)
				continue
			}
			if _, err := conn.Write(line); err != nil {
				logDebug("relay write: %v", err)
				continue
			}
			bytesSent.Add(uint64(len(line)))
		}
	}
}

// sendEvent queues an event for the writer without ever blocking the
// driver. A full queue drops the event; the next full update supersedes
// anything lost.
func sendEvent(ev proto.Event) {
	select {
	case outbound <- ev:
	default:
		logDebug("outbound queue full, dropped %T", ev)
	}
}
