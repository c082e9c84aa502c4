package dispatcher

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, ts testServer) (addr string, stop func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	ln, pc, err := Listen(ctx, "127.0.0.1:0")
	require.NoError(t, err)
	require.Equal(t, ln.Addr().String(), pc.LocalAddr().String(), "tcp and udp share one address")

	errc := make(chan error, 1)
	go func() { errc <- ts.Serve(ctx, ln, pc) }()

	stopped := false
	stop = func() error {
		if stopped {
			return nil
		}
		stopped = true
		cancel()
		select {
		case err := <-errc:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
			return nil
		}
	}
	t.Cleanup(func() { _ = stop() })

	return ln.Addr().String(), stop
}

func tcpRoundTrip(t *testing.T, addr string, payload []byte) []byte {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = conn.Write(payload)
	require.NoError(t, err)

	body, err := io.ReadAll(conn)
	require.NoError(t, err)
	return body
}

func udpRoundTrip(t *testing.T, addr string, payload []byte) []byte {
	t.Helper()

	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = conn.Write(payload)
	require.NoError(t, err)

	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestServeTCPAndUDPShareOneCache(t *testing.T) {
	ts := newTestServer(t, Options{Workers: 2})
	addr, stop := startServer(t, ts)
	payload := envelope(t, squareData)

	overTCP := tcpRoundTrip(t, addr, payload)
	overUDP := udpRoundTrip(t, addr, payload)

	assert.Equal(t, 40.0, decodeReply(t, overTCP).OptimizedDistance)
	assert.Equal(t, string(overTCP), string(overUDP))
	assert.EqualValues(t, 1, ts.solver.calls.Load())

	require.NoError(t, stop())
}

func TestServeTCPMalformed(t *testing.T) {
	ts := newTestServer(t, Options{})
	addr, _ := startServer(t, ts)

	msg := errorOf(t, tcpRoundTrip(t, addr, []byte(`{oops`)))
	assert.True(t, strings.HasPrefix(msg, "invalid request"), msg)
}

func TestServeTCPWrongHash(t *testing.T) {
	ts := newTestServer(t, Options{})
	addr, _ := startServer(t, ts)

	body := tcpRoundTrip(t, addr, []byte(`{"data": `+squareData+`, "hash": "deadbeef"}`))
	assert.JSONEq(t, `{"error": "Hash verification failed"}`, string(body))
}

func TestServeRejectsOversizedMessages(t *testing.T) {
	ts := newTestServer(t, Options{MaxMessageBytes: 64})
	addr, _ := startServer(t, ts)

	msg := errorOf(t, tcpRoundTrip(t, addr, []byte(squareData)))
	assert.Contains(t, msg, "exceeds 64 bytes")

	msg = errorOf(t, udpRoundTrip(t, addr, []byte(squareData)))
	assert.Contains(t, msg, "exceeds 64 bytes")

	assert.Zero(t, ts.solver.calls.Load())
}

func TestServeStopsOnCancel(t *testing.T) {
	ts := newTestServer(t, Options{})
	addr, stop := startServer(t, ts)

	decodeReply(t, udpRoundTrip(t, addr, []byte(squareData)))
	require.NoError(t, stop())

	_, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	assert.Error(t, err, "listener is closed after shutdown")
	assert.Zero(t, ts.QueueDepth())
}

func TestSubmitSharesTheWorkerQueue(t *testing.T) {
	solver := &blockingSolver{release: make(chan struct{})}
	ts := newTestServer(t, Options{Workers: 1}, func(d *Deps) { d.Solver = solver })
	startServer(t, ts)

	const triangleData = `[{"name": "P", "x": 0, "y": 0}, {"name": "Q", "x": 3, "y": 0}, {"name": "R", "x": 0, "y": 4}]`

	squarePayload := envelope(t, squareData)

	first := make(chan []byte, 1)
	go func() { first <- ts.Submit(context.Background(), squarePayload, TransportHTTP) }()
	require.Eventually(t, func() bool { return solver.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	second := make(chan []byte, 1)
	go func() { second <- ts.Submit(context.Background(), []byte(triangleData), TransportHTTP) }()
	require.Eventually(t, func() bool { return ts.QueueDepth() == 1 }, 2*time.Second, 5*time.Millisecond)

	// The only worker is busy, so the second request waits in the queue.
	assert.EqualValues(t, 1, solver.calls.Load())

	close(solver.release)
	decodeReply(t, <-first)
	decodeReply(t, <-second)
	assert.EqualValues(t, 2, solver.calls.Load())
	assert.Zero(t, ts.QueueDepth())
}

func TestSubmitWithoutServeRunsInline(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := decodeReply(t, ts.Submit(context.Background(), envelope(t, squareData), TransportHTTP))
	assert.Equal(t, 40.0, resp.OptimizedDistance)
}
