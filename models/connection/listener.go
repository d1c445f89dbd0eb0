package connection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

const (
	PathBattleship = "/battleship"

	HeaderGame   = "X-Battleship-Game"
	HeaderCodec  = "X-Battleship-Codec"
	HeaderPlayer = "X-Battleship-Player"

	handshakeTimeout time.Duration = time.Second * 5
	shutdownTimeout  time.Duration = time.Second * 3
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: handshakeTimeout,

	// a full grid is the largest frame, this leaves plenty of room
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Listener is the host side of the handshake. It upgrades exactly
// one peer connection and refuses everyone after that.
type Listener struct {
	codec      Codec
	gameUuid   string
	playerName string

	mu       sync.Mutex
	taken    bool
	accepted chan *Session
}

func NewListener(codec Codec, playerName string) *Listener {
	return &Listener{
		codec:      codec,
		gameUuid:   uuid.NewString(),
		playerName: playerName,
		accepted:   make(chan *Session, 1),
	}
}

func (l *Listener) GameUuid() string {
	return l.gameUuid
}

func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requested := r.Header.Get(HeaderCodec)
	if requested == "" {
		requested = CodecJSON
	}
	if requested != l.codec.Name() {
		log.Printf("rejected peer\taddr: %s\tcodec: %s\twant: %s\n", r.RemoteAddr, requested, l.codec.Name())
		http.Error(w, "codec mismatch: host speaks "+l.codec.Name(), http.StatusBadRequest)
		return
	}

	l.mu.Lock()
	if l.taken {
		l.mu.Unlock()
		log.Println("rejected peer; game is full\taddr:", r.RemoteAddr)
		http.Error(w, "game already has an opponent", http.StatusConflict)
		return
	}
	l.taken = true
	l.mu.Unlock()

	header := http.Header{}
	header.Set(HeaderGame, l.gameUuid)
	if l.playerName != "" {
		header.Set(HeaderPlayer, l.playerName)
	}

	// Upgrade replies with an http error on its own
	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Println(err)
		l.mu.Lock()
		l.taken = false
		l.mu.Unlock()
		return
	}

	log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
	l.accepted <- NewSession(conn, l.codec, l.gameUuid, r.Header.Get(HeaderPlayer))
}

// Accept waits for the opponent to connect.
func (l *Listener) Accept(ctx context.Context) (*Session, error) {
	select {
	case session := <-l.accepted:
		return session, nil
	case <-ctx.Done():
		return nil, cerr.ErrConnection(ctx.Err())
	}
}

// Listen serves the handshake on addr until one peer connected,
// then stops listening. The returned session outlives the server.
func Listen(ctx context.Context, addr string, codec Codec, playerName string) (*Session, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, cerr.ErrConnection(err)
	}
	return serve(ctx, ln, NewListener(codec, playerName))
}

func serve(ctx context.Context, ln net.Listener, l *Listener) (*Session, error) {
	mux := http.NewServeMux()
	mux.Handle("GET "+PathBattleship, l)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: handshakeTimeout,
	}

	go func() {
		log.Printf("waiting for opponent\taddr: %s\tgame: %s\n", ln.Addr().String(), l.GameUuid())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println(err)
		}
	}()

	session, err := l.Accept(ctx)

	// hijacked websocket connections are not touched by Shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Println("listener shutdown:", shutdownErr)
	}

	return session, err
}

// Dial joins the game hosted at addr. addr is either host:port or a
// ws(s)/http(s) URL.
func Dial(ctx context.Context, addr string, codec Codec, playerName string) (*Session, error) {
	target, err := peerURL(addr)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set(HeaderCodec, codec.Name())
	if playerName != "" {
		header.Set(HeaderPlayer, playerName)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		ReadBufferSize:   2048,
		WriteBufferSize:  2048,
	}

	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			return nil, cerr.ErrConnection(fmt.Errorf("handshake refused with status %d: %w", resp.StatusCode, err))
		}
		return nil, cerr.ErrConnection(err)
	}

	gameUuid := resp.Header.Get(HeaderGame)
	log.Printf("joined game\thost: %s\tgame: %s\n", conn.RemoteAddr().String(), gameUuid)
	return NewSession(conn, codec, gameUuid, resp.Header.Get(HeaderPlayer)), nil
}

func peerURL(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		return (&url.URL{Scheme: "ws", Host: addr, Path: PathBattleship}).String(), nil
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", cerr.ErrConnection(err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", cerr.ErrConnection(fmt.Errorf("unsupported scheme: %s", u.Scheme))
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = PathBattleship
	}
	return u.String(), nil
}
