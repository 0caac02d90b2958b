package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/collectivesmq/collectives/pkg/params"
)

func TestNewBasicCarriesTopology(t *testing.T) {
	p, err := params.New(1, 4, []string{"a:1", "b:1", "c:1", "d:1"}, 5, 0.01)
	require.NoError(t, err)

	b := NewBasic(context.Background(), p, zerolog.Nop())
	require.Equal(t, 1, b.Rank())
	require.Equal(t, 4, b.NRanks())
}

// freeAddr reserves an ephemeral TCP port and releases it immediately,
// mirroring the teacher's own net.Listen("tcp", "127.0.0.1:0") idiom
// for handing a test a real, currently-unused loopback address
// (_examples/luxfi-zmq/zmq4_stream_test.go).
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestBasicSendRecvRoundTrip(t *testing.T) {
	addrs := []string{freeAddr(t), freeAddr(t)}

	pRecv, err := params.New(1, 2, addrs, 5, 0.01)
	require.NoError(t, err)
	pSend, err := params.New(0, 2, addrs, 5, 0.01)
	require.NoError(t, err)

	ctx := context.Background()
	recvT := NewBasic(ctx, pRecv, zerolog.Nop())
	sendT := NewBasic(ctx, pSend, zerolog.Nop())

	recvCh := make(chan []byte, 1)
	errCh := make(chan error, 1)
	go func() {
		b, err := recvT.Recv(ctx)
		if err != nil {
			errCh <- err
			return
		}
		recvCh <- b
	}()

	// Allow the PAIR listener to bind before the sender dials, same
	// grace period the teacher's own PUSH/PULL test gives its sockets.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, sendT.Send(ctx, 1, []byte("hello from rank 0")))

	select {
	case got := <-recvCh:
		require.Equal(t, []byte("hello from rank 0"), got)
	case err := <-errCh:
		t.Fatalf("recv failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for round trip")
	}
}
