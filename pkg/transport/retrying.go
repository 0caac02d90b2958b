package transport

import (
	"context"
	"time"

	"github.com/luxfi/zmq/v4"
	"github.com/rs/zerolog"

	"github.com/collectivesmq/collectives/pkg/backoff"
	"github.com/collectivesmq/collectives/pkg/params"
)

// Retrying is the PUSH/PULL transport: bounded exponential backoff via
// pkg/backoff, a Poller registration per call, and the socket options
// spec.md §6 requires for the data plane (IMMEDIATE, LINGER=-1,
// DELAY_ATTACH_ON_CONNECT, unbounded HWMs).
type Retrying struct {
	base
	ctx            context.Context
	backoffRetries int
	backoffAmtS    float64
	pollItvl       time.Duration
}

// NewRetrying constructs the retrying flavour from Params.
func NewRetrying(ctx context.Context, p *params.Params, log zerolog.Logger) *Retrying {
	pollItvl := 250 * time.Millisecond
	if p.PollItvlMS > 0 {
		pollItvl = time.Duration(p.PollItvlMS) * time.Millisecond
	}
	return &Retrying{
		base:           newBase(p, log),
		ctx:            ctx,
		backoffRetries: p.BackoffRetries,
		backoffAmtS:    p.BackoffAmtS,
		pollItvl:       pollItvl,
	}
}

func (t *Retrying) Initialize() error { return nil }
func (t *Retrying) Finalize() error   { return nil }

func setDataPlaneSendOptions(sock zmq4.Socket) {
	_ = sock.SetOption("IMMEDIATE", 1)
	_ = sock.SetOption("LINGER", -1)
	_ = sock.SetOption("DELAY_ATTACH_ON_CONNECT", 1)
	_ = sock.SetOption("SNDHWM", 0)
}

func setDataPlaneRecvOptions(sock zmq4.Socket) {
	_ = sock.SetOption("RCVHWM", 0)
}

// Send pushes data to peer, retrying with pkg/backoff on every
// connect/send failure and on POLLOUT timeout, until the backoff
// budget is exhausted.
func (t *Retrying) Send(ctx context.Context, peer int, data []byte) error {
	addr := tcpAddr(t.addresses[peer])
	sock := zmq4.NewPush(t.ctx)
	defer sock.Close()
	setDataPlaneSendOptions(sock)

	if err := sock.Dial(addr); err != nil {
		return &TransportError{Op: "send.dial", Peer: peer, Err: err}
	}

	poller := zmq4.NewPoller()
	_ = poller.Add(sock, zmq4.Writable)
	defer poller.Remove(sock)

	bo := backoff.New(t.backoffRetries, t.backoffAmtS)
	msg := zmq4.NewMsg(data)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		outcome := bo.Next()
		if !outcome.Ok {
			return &BackoffExceeded{Op: "send", Peer: peer, Attempts: bo.RetryCount()}
		}

		if err := sock.Send(msg); err != nil {
			t.log.Debug().Err(err).Int("peer", peer).Msg("retrying transport: send failed, backing off")
			sleep(ctx, outcome.Delay)
			_ = sock.Dial(addr)
			continue
		}

		items, err := poller.Poll(outcome.Delay)
		if err != nil {
			t.log.Debug().Err(err).Int("peer", peer).Msg("retrying transport: poll failed, backing off")
			continue
		}
		for _, it := range items {
			if it.Events&zmq4.Writable != 0 {
				return nil
			}
		}
	}
}

// Recv pulls the next message addressed to this rank, retrying with
// pkg/backoff on every POLLIN timeout, until the backoff budget is
// exhausted.
func (t *Retrying) Recv(ctx context.Context) ([]byte, error) {
	addr := tcpAddr(t.addresses[t.rank])
	sock := zmq4.NewPull(t.ctx)
	defer sock.Close()
	setDataPlaneRecvOptions(sock)

	if err := sock.Listen(addr); err != nil {
		return nil, &TransportError{Op: "recv.listen", Peer: t.rank, Err: err}
	}

	poller := zmq4.NewPoller()
	_ = poller.Add(sock, zmq4.Readable)
	defer poller.Remove(sock)

	bo := backoff.New(t.backoffRetries, t.backoffAmtS)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		outcome := bo.Next()
		if !outcome.Ok {
			return nil, &BackoffExceeded{Op: "recv", Peer: t.rank, Attempts: bo.RetryCount()}
		}

		items, err := poller.Poll(outcome.Delay)
		if err != nil {
			t.log.Debug().Err(err).Int("rank", t.rank).Msg("retrying transport: poll failed, backing off")
			continue
		}
		for _, it := range items {
			if it.Events&zmq4.Readable != 0 {
				msg, err := sock.Recv()
				if err != nil {
					t.log.Debug().Err(err).Int("rank", t.rank).Msg("retrying transport: recv failed, backing off")
					continue
				}
				return msg.Bytes(), nil
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

var _ Transport = (*Retrying)(nil)
