package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	writeErr error

	messages  [][]byte
	closed    bool
	closeCode websocket.StatusCode
}

func (f *fakeConn) Write(_ context.Context, _ websocket.MessageType, p []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, p)
	return nil
}

func (f *fakeConn) Close(code websocket.StatusCode, _ string) error {
	f.closed = true
	f.closeCode = code
	return nil
}

func TestSendToUnregisteredJobIsNoOp(t *testing.T) {
	h := NewHub()

	// must not panic or block
	h.SendProgress(context.Background(), "missing-job", "hello")
	h.SendResult(context.Background(), "missing-job", map[string]string{"a": "b"})
}

func TestSendProgressDeliversTextFrame(t *testing.T) {
	h := NewHub()
	conn := &fakeConn{}
	h.Register("job-1", conn)

	h.SendProgress(context.Background(), "job-1", "Crawling page 1 of 3")
	require.Len(t, conn.messages, 1)
	require.Equal(t, "Crawling page 1 of 3", string(conn.messages[0]))
}

func TestSendResultMarshalsPayload(t *testing.T) {
	h := NewHub()
	conn := &fakeConn{}
	h.Register("job-1", conn)

	h.SendResult(context.Background(), "job-1", map[string]int{"riskScore": 42})
	require.Len(t, conn.messages, 1)
	require.JSONEq(t, `{"riskScore": 42}`, string(conn.messages[0]))
}

func TestRegisterReplacesAndClosesPrevious(t *testing.T) {
	h := NewHub()
	first := &fakeConn{}
	second := &fakeConn{}

	h.Register("job-1", first)
	h.Register("job-1", second)

	require.True(t, first.closed)
	require.Equal(t, websocket.StatusPolicyViolation, first.closeCode)

	h.SendProgress(context.Background(), "job-1", "msg")
	require.Empty(t, first.messages)
	require.Len(t, second.messages, 1)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := NewHub()
	conn := &fakeConn{}
	h.Register("job-1", conn)
	h.Unregister("job-1")

	h.SendProgress(context.Background(), "job-1", "msg")
	require.Empty(t, conn.messages)
}

func TestWriteFailureDropsChannel(t *testing.T) {
	h := NewHub()
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	h.Register("job-1", conn)

	h.SendProgress(context.Background(), "job-1", "msg")
	require.True(t, conn.closed)

	// channel is gone; a second send is a no-op
	conn.writeErr = nil
	h.SendProgress(context.Background(), "job-1", "msg")
	require.Empty(t, conn.messages)
}

func TestShutdownClosesAllChannels(t *testing.T) {
	h := NewHub()
	first := &fakeConn{}
	second := &fakeConn{}
	h.Register("job-1", first)
	h.Register("job-2", second)

	h.Shutdown()

	require.True(t, first.closed)
	require.True(t, second.closed)
	require.Equal(t, websocket.StatusGoingAway, first.closeCode)

	h.SendProgress(context.Background(), "job-1", "msg")
	require.Empty(t, first.messages)
}
