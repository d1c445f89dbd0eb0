package api

import (
	"errors"
	"sync"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
)

var errTestClosed = errors.New("test transport closed")

// recordingTransport keeps what the engine sends and feeds Receive
// from a queue the test fills.
type recordingTransport struct {
	mu      sync.Mutex
	sent    []mc.Message
	sendErr error
	closed  bool

	inbound chan mc.Message
	done    chan struct{}
	once    sync.Once
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{
		inbound: make(chan mc.Message, 16),
		done:    make(chan struct{}),
	}
}

func (t *recordingTransport) Send(msg mc.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return cerr.ErrConnection(errTestClosed)
	}
	if t.sendErr != nil {
		return cerr.ErrConnection(t.sendErr)
	}
	t.sent = append(t.sent, msg)
	return nil
}

func (t *recordingTransport) Receive() (mc.Message, error) {
	select {
	case msg := <-t.inbound:
		return msg, nil
	case <-t.done:
		return nil, cerr.ErrConnection(errTestClosed)
	}
}

func (t *recordingTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.once.Do(func() { close(t.done) })
	return nil
}

func (t *recordingTransport) Sent() []mc.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]mc.Message, len(t.sent))
	copy(out, t.sent)
	return out
}

func (t *recordingTransport) Last() mc.Message {
	sent := t.Sent()
	if len(sent) == 0 {
		return nil
	}
	return sent[len(sent)-1]
}

func (t *recordingTransport) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// pipeTransport is one end of an in-memory FIFO connection.
type pipeTransport struct {
	in         <-chan mc.Message
	out        chan<- mc.Message
	closed     chan struct{}
	peerClosed <-chan struct{}
	once       sync.Once
}

func newPipe() (*pipeTransport, *pipeTransport) {
	aToB := make(chan mc.Message, 64)
	bToA := make(chan mc.Message, 64)
	aClosed := make(chan struct{})
	bClosed := make(chan struct{})

	a := &pipeTransport{in: bToA, out: aToB, closed: aClosed, peerClosed: bClosed}
	b := &pipeTransport{in: aToB, out: bToA, closed: bClosed, peerClosed: aClosed}
	return a, b
}

func (p *pipeTransport) Send(msg mc.Message) error {
	select {
	case <-p.closed:
		return cerr.ErrConnection(errTestClosed)
	case <-p.peerClosed:
		return cerr.ErrConnection(errTestClosed)
	default:
	}

	select {
	case p.out <- msg:
		return nil
	case <-p.closed:
		return cerr.ErrConnection(errTestClosed)
	}
}

func (p *pipeTransport) Receive() (mc.Message, error) {
	// messages sent before a close are still delivered
	select {
	case msg := <-p.in:
		return msg, nil
	default:
	}

	select {
	case msg := <-p.in:
		return msg, nil
	case <-p.closed:
		return nil, cerr.ErrConnection(errTestClosed)
	case <-p.peerClosed:
		select {
		case msg := <-p.in:
			return msg, nil
		default:
			return nil, cerr.ErrConnection(errTestClosed)
		}
	}
}

func (p *pipeTransport) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
