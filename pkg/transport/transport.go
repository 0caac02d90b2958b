// Package transport implements the point-to-point send/recv contract
// collectivesmq's collective algorithms are built on, over
// github.com/luxfi/zmq/v4. Three flavours share one capability
// interface: Basic (PAIR, unbounded retry), Retrying (PUSH/PULL +
// Poller + bounded backoff), and Router (ROUTER/ROUTER rendezvous
// mesh). pkg/collectives is oblivious to which is in use.
package transport

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/collectivesmq/collectives/pkg/params"
)

// Transport is the capability pkg/collectives depends on: send a
// message to a peer rank, block for the next message addressed to
// this rank, and a scoped lifecycle around both.
type Transport interface {
	Send(ctx context.Context, peer int, data []byte) error
	Recv(ctx context.Context) ([]byte, error)
	Initialize() error
	Finalize() error
	Rank() int
	NRanks() int
}

// TransportError wraps a single send/recv failure from the underlying
// wire layer.
type TransportError struct {
	Op   string
	Peer int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s(peer=%d): %v", e.Op, e.Peer, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackoffExceeded reports that the retrying transport's retry budget
// was spent without a successful send or recv.
type BackoffExceeded struct {
	Op       string
	Peer     int
	Attempts int
}

func (e *BackoffExceeded) Error() string {
	return fmt.Sprintf("transport: %s(peer=%d): backoff exceeded after %d attempts", e.Op, e.Peer, e.Attempts)
}

// ProtocolViolation marks a decode failure that indicates ranks have
// drifted out of the expected tree-walk step. The library makes no
// attempt to recover from this; it is detectable only because a frame
// failed to parse as the shape the caller expected.
type ProtocolViolation struct {
	Reason string
	Err    error
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("transport: protocol violation: %s: %v", e.Reason, e.Err)
}

func (e *ProtocolViolation) Unwrap() error { return e.Err }

func tcpAddr(addr string) string { return "tcp://" + addr }

// base holds the fields every flavour needs from Params plus an
// injected logger, factored out to avoid repeating it per flavour.
type base struct {
	rank      int
	nranks    int
	addresses []string
	log       zerolog.Logger
}

func newBase(p *params.Params, log zerolog.Logger) base {
	return base{rank: p.Rank, nranks: p.NRanks, addresses: p.Addresses, log: log}
}

func (b base) Rank() int   { return b.rank }
func (b base) NRanks() int { return b.nranks }
