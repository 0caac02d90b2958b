package transport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/luxfi/zmq/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/collectivesmq/collectives/pkg/params"
)

// Router is the ROUTER/ROUTER rendezvous variant: every rank binds one
// "in" ROUTER endpoint (identity = ASCII decimal rank, probe_router
// enabled so connecting peers get a zero-length greeting) and, during
// Initialize, connects a second "out" ROUTER to every peer in
// rank-staggered order, draining one greeting per peer. After
// Initialize all ranks share a full mesh; Send/Recv then reuse the
// long-lived sockets instead of the per-call bind/connect lifecycle
// the other two flavours use.
type Router struct {
	base
	ctx              context.Context
	bootstrapTimeout time.Duration

	in  zmq4.Socket
	out zmq4.Socket
}

// NewRouterTransport constructs the ROUTER rendezvous flavour.
// bootstrapTimeout (zero selects a 10s default) sets the deadline of
// the context Initialize derives for its dial fan-out; neither the
// dials nor the greeting drain consult that context, so the handshake
// itself is not time-bounded.
func NewRouterTransport(ctx context.Context, p *params.Params, log zerolog.Logger, bootstrapTimeout time.Duration) *Router {
	if bootstrapTimeout <= 0 {
		bootstrapTimeout = 10 * time.Second
	}
	return &Router{base: newBase(p, log), ctx: ctx, bootstrapTimeout: bootstrapTimeout}
}

func identity(rank int) zmq4.SocketIdentity {
	return zmq4.SocketIdentity(strconv.Itoa(rank))
}

// Initialize binds the in-ROUTER, then connects the out-ROUTER to
// every peer, staggering each rank's start by rank*stagger so a
// world-wide boot doesn't open every connection in the same instant,
// and drains the probe_router greeting each Dial produces.
func (t *Router) Initialize() error {
	t.in = zmq4.NewRouter(t.ctx, zmq4.WithID(identity(t.rank)))
	_ = t.in.SetOption("probe_router", 1)
	if err := t.in.Listen(tcpAddr(t.addresses[t.rank])); err != nil {
		return &TransportError{Op: "initialize.listen", Peer: t.rank, Err: err}
	}

	t.out = zmq4.NewRouter(t.ctx, zmq4.WithID(identity(t.rank)))
	_ = t.out.SetOption("probe_router", 1)

	const stagger = 5 * time.Millisecond
	time.Sleep(time.Duration(t.rank) * stagger)

	ctx, cancel := context.WithTimeout(t.ctx, t.bootstrapTimeout)
	defer cancel()

	g, _ := errgroup.WithContext(ctx)
	for peer := 0; peer < t.nranks; peer++ {
		if peer == t.rank {
			continue
		}
		peer := peer
		g.Go(func() error {
			if err := t.out.Dial(tcpAddr(t.addresses[peer])); err != nil {
				return fmt.Errorf("dial peer %d: %w", peer, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &TransportError{Op: "initialize.mesh", Peer: t.rank, Err: err}
	}

	for i := 0; i < t.nranks-1; i++ {
		if _, err := t.in.Recv(); err != nil {
			return &TransportError{Op: "initialize.greeting", Peer: t.rank, Err: err}
		}
	}

	t.log.Debug().Int("rank", t.rank).Int("peers", t.nranks-1).Msg("router transport: mesh established")
	return nil
}

func (t *Router) Finalize() error {
	var err error
	if t.out != nil {
		err = t.out.Close()
	}
	if t.in != nil {
		if e := t.in.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Send emits a two-frame [rank_header, payload] message on the
// out-ROUTER addressed to peer's identity.
func (t *Router) Send(ctx context.Context, peer int, data []byte) error {
	msg := zmq4.NewMsgFrom([]byte(strconv.Itoa(peer)), data)
	if err := t.out.Send(msg); err != nil {
		return &TransportError{Op: "send", Peer: peer, Err: err}
	}
	return nil
}

// Recv reads the next multipart message on the in-ROUTER and returns
// its payload (the frame following the sender's identity header).
func (t *Router) Recv(ctx context.Context) ([]byte, error) {
	msg, err := t.in.Recv()
	if err != nil {
		return nil, &TransportError{Op: "recv", Peer: t.rank, Err: err}
	}
	if len(msg.Frames) < 2 {
		return nil, &ProtocolViolation{Reason: "router message missing payload frame", Err: fmt.Errorf("got %d frames", len(msg.Frames))}
	}
	return msg.Frames[len(msg.Frames)-1], nil
}

var _ Transport = (*Router)(nil)
