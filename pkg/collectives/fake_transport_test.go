package collectives_test

import (
	"context"
	"fmt"
)

// fakeTransport is an in-process mesh standing in for pkg/transport's
// ZeroMQ-backed flavours in tests: Send pushes onto the destination
// rank's inbound channel, Recv pulls from its own. Buffered enough
// that every collective algorithm's lockstep send/recv pattern never
// needs two ranks scheduled simultaneously to make progress.
type fakeTransport struct {
	rank   int
	nranks int
	inbox  []chan []byte
}

func newFakeMesh(nranks int) []*fakeTransport {
	inboxes := make([]chan []byte, nranks)
	for i := range inboxes {
		inboxes[i] = make(chan []byte, nranks*8)
	}
	mesh := make([]*fakeTransport, nranks)
	for i := range mesh {
		mesh[i] = &fakeTransport{rank: i, nranks: nranks, inbox: inboxes}
	}
	return mesh
}

func (f *fakeTransport) Send(ctx context.Context, peer int, data []byte) error {
	if peer < 0 || peer >= f.nranks {
		return fmt.Errorf("fakeTransport: peer %d out of range", peer)
	}
	cp := append([]byte(nil), data...)
	select {
	case f.inbox[peer] <- cp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeTransport) Recv(ctx context.Context) ([]byte, error) {
	select {
	case b := <-f.inbox[f.rank]:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeTransport) Initialize() error { return nil }
func (f *fakeTransport) Finalize() error   { return nil }
func (f *fakeTransport) Rank() int         { return f.rank }
func (f *fakeTransport) NRanks() int       { return f.nranks }
