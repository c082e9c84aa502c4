package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tour-solver-service/internal/domain"
)

const (
	writeTimeout  = 5 * time.Second
	lingerTimeout = 200 * time.Millisecond
)

type job struct {
	ctx       context.Context
	cancel    context.CancelFunc
	payload   []byte
	transport string
	reply     func([]byte) error
	done      func()
}

// Listen opens the TCP listener and the UDP socket on the same address.
// When addr asks for port 0 the UDP socket takes the port chosen for TCP.
func Listen(ctx context.Context, addr string) (net.Listener, net.PacketConn, error) {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen tcp %s: %w", addr, err)
	}

	pc, err := lc.ListenPacket(ctx, "udp", ln.Addr().String())
	if err != nil {
		ln.Close()
		return nil, nil, fmt.Errorf("listen udp %s: %w", ln.Addr(), err)
	}

	return ln, pc, nil
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, pc, err := Listen(ctx, addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, pc)
}

// Serve reads requests from ln and pc into one FIFO queue consumed by the
// worker pool. It returns after ctx is done, both readers have stopped and
// every queued request has been answered. Serve closes ln and pc.
func (s *Server) Serve(ctx context.Context, ln net.Listener, pc net.PacketConn) error {
	zap.L().Info("dispatcher listening",
		zap.String("tcp", ln.Addr().String()),
		zap.String("udp", pc.LocalAddr().String()),
		zap.Int("workers", s.opts.Workers),
	)

	jobs := make(chan job, s.opts.QueueSize)

	s.queueMu.Lock()
	s.queue = jobs
	s.queueMu.Unlock()

	var workers sync.WaitGroup
	for i := 0; i < s.opts.Workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for j := range jobs {
				s.run(j)
			}
		}()
	}

	var conns sync.WaitGroup
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		// Unblock both readers. The UDP socket stays open so queued
		// datagrams can still be answered.
		ln.Close()
		return pc.SetReadDeadline(time.Now())
	})
	g.Go(func() error {
		return s.acceptLoop(gctx, ln, jobs, &conns)
	})
	g.Go(func() error {
		return s.packetLoop(gctx, pc, jobs)
	})

	err := g.Wait()
	conns.Wait()

	s.queueMu.Lock()
	s.queue = nil
	s.queueMu.Unlock()
	s.submits.Wait()

	close(jobs)
	workers.Wait()
	pc.Close()

	zap.L().Info("dispatcher stopped")
	return err
}

// Submit queues payload behind TCP and UDP traffic and waits for the
// reply, so every transport shares the worker pool. When Serve is not
// running the request is handled inline.
func (s *Server) Submit(ctx context.Context, payload []byte, transport string) []byte {
	s.queueMu.RLock()
	jobs := s.queue
	if jobs != nil {
		s.submits.Add(1)
	}
	s.queueMu.RUnlock()

	if jobs == nil {
		return s.Handle(ctx, payload, transport)
	}
	defer s.submits.Done()

	jobCtx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	replies := make(chan []byte, 1)
	j := job{
		ctx:       jobCtx,
		cancel:    cancel,
		payload:   payload,
		transport: transport,
		reply: func(body []byte) error {
			replies <- body
			return nil
		},
		done: func() {},
	}
	if !s.enqueue(jobCtx, jobs, j) {
		cancel()
		return s.reject("", transport, fmt.Errorf("submit: %w while queued", domain.ErrTimeout))
	}

	select {
	case body := <-replies:
		return body
	case <-jobCtx.Done():
		return s.reject("", transport, fmt.Errorf("submit: %w waiting for a worker", domain.ErrTimeout))
	}
}

func (s *Server) run(j job) {
	s.trackQueue(-1)
	defer j.cancel()
	defer j.done()

	body := s.Handle(j.ctx, j.payload, j.transport)
	if err := j.reply(body); err != nil {
		zap.L().Warn("write reply failed", zap.String("transport", j.transport), zap.Error(err))
	}
}

func (s *Server) enqueue(ctx context.Context, jobs chan<- job, j job) bool {
	s.trackQueue(1)
	select {
	case jobs <- j:
		return true
	case <-ctx.Done():
		s.trackQueue(-1)
		return false
	}
}

func (s *Server) trackQueue(delta int64) {
	s.metrics.SetQueueDepth(int(s.queued.Add(delta)))
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, jobs chan<- job, conns *sync.WaitGroup) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept loop: %w", err)
			}
			zap.L().Warn("tcp accept failed", zap.Error(err))
			time.Sleep(5 * time.Millisecond)
			continue
		}

		conns.Add(1)
		go func() {
			defer conns.Done()
			s.serveConn(ctx, conn, jobs)
		}()
	}
}

// serveConn reads one JSON value from conn, queues it and closes conn once
// the reply is written.
func (s *Server) serveConn(ctx context.Context, conn net.Conn, jobs chan<- job) {
	received := time.Now()
	jobCtx, cancel := context.WithDeadline(context.WithoutCancel(ctx), received.Add(s.opts.RequestTimeout))

	_ = conn.SetDeadline(received.Add(s.opts.RequestTimeout))
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })

	payload, err := s.readMessage(conn)
	stop()
	if err != nil {
		defer cancel()
		defer s.closeConn(conn)

		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
			zap.L().Debug("tcp read abandoned", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
			return
		}
		if _, werr := conn.Write(s.reject("", TransportTCP, err)); werr != nil {
			zap.L().Warn("write reply failed", zap.String("transport", TransportTCP), zap.Error(werr))
		}
		return
	}

	j := job{
		ctx:       jobCtx,
		cancel:    cancel,
		payload:   payload,
		transport: TransportTCP,
		reply: func(body []byte) error {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_, err := conn.Write(body)
			return err
		},
		done: func() { go s.closeConn(conn) },
	}
	if !s.enqueue(ctx, jobs, j) {
		cancel()
		conn.Close()
	}
}

// closeConn half-closes conn and discards unread input before closing, so
// the peer sees the reply followed by EOF rather than a reset.
func (s *Server) closeConn(conn net.Conn) {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
		_ = conn.SetReadDeadline(time.Now().Add(lingerTimeout))
		_, _ = io.Copy(io.Discard, io.LimitReader(conn, int64(s.opts.MaxMessageBytes)))
	}
	conn.Close()
}

// readMessage returns the first complete JSON value on conn, bounded by
// MaxMessageBytes. Client errors wrap domain.ErrDecode; socket errors are
// returned as is.
func (s *Server) readMessage(conn net.Conn) ([]byte, error) {
	lr := &io.LimitedReader{R: conn, N: int64(s.opts.MaxMessageBytes)}
	dec := json.NewDecoder(lr)

	var raw json.RawMessage
	err := dec.Decode(&raw)
	if err == nil {
		return raw, nil
	}

	var syntaxErr *json.SyntaxError
	switch {
	case lr.N == 0:
		return nil, fmt.Errorf("read message: %w: message exceeds %d bytes", domain.ErrDecode, s.opts.MaxMessageBytes)
	case errors.As(err, &syntaxErr):
		return nil, fmt.Errorf("read message: %w: malformed JSON: %v", domain.ErrDecode, err)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("read message: %w: truncated JSON", domain.ErrDecode)
	default:
		return nil, err
	}
}

func (s *Server) packetLoop(ctx context.Context, pc net.PacketConn, jobs chan<- job) error {
	buf := make([]byte, s.opts.MaxMessageBytes+1)
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("packet loop: %w", err)
			}
			zap.L().Warn("udp read failed", zap.Error(err))
			continue
		}
		if n == 0 {
			continue
		}

		reply := func(body []byte) error {
			_, err := pc.WriteTo(body, addr)
			return err
		}

		if n > s.opts.MaxMessageBytes {
			err := fmt.Errorf("read datagram: %w: message exceeds %d bytes", domain.ErrDecode, s.opts.MaxMessageBytes)
			if werr := reply(s.reject("", TransportUDP, err)); werr != nil {
				zap.L().Warn("write reply failed", zap.String("transport", TransportUDP), zap.Error(werr))
			}
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RequestTimeout)
		j := job{
			ctx:       jobCtx,
			cancel:    cancel,
			payload:   payload,
			transport: TransportUDP,
			reply:     reply,
			done:      func() {},
		}
		if !s.enqueue(ctx, jobs, j) {
			cancel()
			return nil
		}
	}
}
