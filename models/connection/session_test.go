package connection

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

func newTestHost(t *testing.T, codec Codec) (*Listener, *httptest.Server) {
	t.Helper()

	l := NewListener(codec, "host")
	mux := http.NewServeMux()
	mux.Handle("GET "+PathBattleship, l)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return l, server
}

func connectPair(t *testing.T, codec Codec) (host *Session, join *Session) {
	t.Helper()

	l, server := newTestHost(t, codec)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	join, err := Dial(ctx, server.URL, codec, "join")
	if err != nil {
		t.Fatal(err)
	}
	host, err = l.Accept(ctx)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = host.Close()
		_ = join.Close()
	})
	return host, join
}

func TestSessionHandshake(t *testing.T) {
	host, join := connectPair(t, JSONCodec{})

	if host.GameUuid() == "" || host.GameUuid() != join.GameUuid() {
		t.Fatalf("expected shared game uuid\thost: %q\tjoin: %q", host.GameUuid(), join.GameUuid())
	}
	if host.PeerName() != "join" {
		t.Fatalf("expected host peer name: join\tgot: %s", host.PeerName())
	}
	if join.PeerName() != "host" {
		t.Fatalf("expected join peer name: host\tgot: %s", join.PeerName())
	}
	if host.Id() == join.Id() {
		t.Fatal("expected distinct session ids")
	}
}

func TestSessionExchange(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, ProtoCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			host, join := connectPair(t, codec)

			var grid mb.Snapshot
			grid[4][5] = mb.CellHit

			tests := []struct {
				name     string
				sender   *Session
				receiver *Session
				msg      Message
			}{
				{name: "host moves", sender: host, receiver: join, msg: NewMove(mb.NewCoordinates(5, 4))},
				{name: "join answers", sender: join, receiver: host, msg: NewGridUpdate(grid)},
				{name: "join terminates", sender: join, receiver: host, msg: NewTermination(ReasonDefeated)},
				{name: "host reveals", sender: host, receiver: join, msg: NewReveal(grid)},
			}

			for _, test := range tests {
				if err := test.sender.Send(test.msg); err != nil {
					t.Fatalf("%s: %v", test.name, err)
				}
				got, err := test.receiver.Receive()
				if err != nil {
					t.Fatalf("%s: %v", test.name, err)
				}
				if got != test.msg {
					t.Fatalf("%s: expected message: %+v\tgot: %+v", test.name, test.msg, got)
				}
			}
		})
	}
}

func TestSessionRejectsSecondPeer(t *testing.T) {
	l, server := newTestHost(t, JSONCodec{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	first, err := Dial(ctx, server.URL, JSONCodec{}, "first")
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	accepted, err := l.Accept(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer accepted.Close()

	_, err = Dial(ctx, server.URL, JSONCodec{}, "second")
	if !errors.Is(err, cerr.ErrTransport) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrTransport, err)
	}
	if !strings.Contains(err.Error(), "409") {
		t.Fatalf("expected status 409 in error\tgot: %v", err)
	}
}

func TestSessionRejectsCodecMismatch(t *testing.T) {
	_, server := newTestHost(t, ProtoCodec{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := Dial(ctx, server.URL, JSONCodec{}, "join")
	if !errors.Is(err, cerr.ErrTransport) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrTransport, err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected status 400 in error\tgot: %v", err)
	}
}

func TestSessionReceiveMalformedFrame(t *testing.T) {
	l, server := newTestHost(t, JSONCodec{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	header := http.Header{}
	header.Set(HeaderCodec, CodecJSON)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + PathBattleship
	raw, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()

	host, err := l.Accept(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer host.Close()

	tests := []struct {
		name      string
		frameType int
		frame     []byte
	}{
		{name: "garbage text", frameType: websocket.TextMessage, frame: []byte("not json")},
		{name: "binary frame for json codec", frameType: websocket.BinaryMessage, frame: []byte{0x08, 0x00}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := raw.WriteMessage(test.frameType, test.frame); err != nil {
				t.Fatal(err)
			}
			_, err := host.Receive()
			if !errors.Is(err, cerr.ErrProtocolViolation) {
				t.Fatalf("expected error: %v\tgot: %v", cerr.ErrProtocolViolation, err)
			}
		})
	}

	// the session survives violations
	if err := raw.WriteMessage(websocket.TextMessage, []byte(`{"code":2,"payload":{"reason":"defeated"}}`)); err != nil {
		t.Fatal(err)
	}
	msg, err := host.Receive()
	if err != nil {
		t.Fatal(err)
	}
	if msg != NewTermination(ReasonDefeated) {
		t.Fatalf("expected termination\tgot: %+v", msg)
	}
}

func TestSessionPeerClose(t *testing.T) {
	host, join := connectPair(t, JSONCodec{})

	if err := join.Close(); err != nil {
		t.Fatal(err)
	}
	// second close is a no-op
	if err := join.Close(); err != nil {
		t.Fatal(err)
	}

	_, err := host.Receive()
	if !errors.Is(err, cerr.ErrTransport) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrTransport, err)
	}

	err = join.Send(NewMove(mb.NewCoordinates(0, 0)))
	if !IsClosedErr(err) {
		t.Fatalf("expected closed session error\tgot: %v", err)
	}
}

func TestListenAcceptTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*100)
	defer cancel()

	_, err := Listen(ctx, "127.0.0.1:0", JSONCodec{}, "host")
	if !errors.Is(err, cerr.ErrTransport) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrTransport, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded\tgot: %v", err)
	}
}

func TestPeerURL(t *testing.T) {
	tests := []struct {
		addr     string
		expected string
		fails    bool
	}{
		{addr: "127.0.0.1:9191", expected: "ws://127.0.0.1:9191/battleship"},
		{addr: "http://127.0.0.1:9191", expected: "ws://127.0.0.1:9191/battleship"},
		{addr: "https://example.com", expected: "wss://example.com/battleship"},
		{addr: "ws://example.com/custom", expected: "ws://example.com/custom"},
		{addr: "ftp://example.com", fails: true},
	}

	for _, test := range tests {
		t.Run(test.addr, func(t *testing.T) {
			got, err := peerURL(test.addr)
			if test.fails {
				if err == nil {
					t.Fatalf("expected error for %s", test.addr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != test.expected {
				t.Fatalf("expected url: %s\tgot: %s", test.expected, got)
			}
		})
	}
}
