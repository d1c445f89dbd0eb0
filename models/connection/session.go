package connection

import (
	"encoding/base64"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	writeWait         time.Duration = time.Second * 10
	closeGracePeriod  time.Duration = time.Second
)

// Transport is an ordered, reliable, bidirectional message stream
// to the single opponent of a game.
type Transport interface {
	// Send serializes and writes one message.
	Send(msg Message) error
	// Receive blocks until one full message arrived. Undecodable
	// frames fail with cerr.ErrProtocolViolation, a broken
	// connection with cerr.ErrTransport.
	Receive() (Message, error)
	Close() error
}

// Session is the websocket connection to the opponent. Writes are
// serialized; Receive must only be called from one goroutine.
type Session struct {
	id       string
	gameUuid string
	peerName string
	conn     *websocket.Conn
	codec    Codec

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
	createdAt time.Time
}

var _ Transport = (*Session)(nil)

func NewSession(conn *websocket.Conn, codec Codec, gameUuid, peerName string) *Session {
	return &Session{
		id:        base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String())),
		gameUuid:  gameUuid,
		peerName:  peerName,
		conn:      conn,
		codec:     codec,
		closed:    make(chan struct{}),
		createdAt: time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) GameUuid() string {
	return s.gameUuid
}

func (s *Session) PeerName() string {
	return s.peerName
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *Session) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *Session) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Session) onConnErr(err error) uint8 {
	if s.isClosed() {
		return ConnSessionClosed
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Println("high server load/traffic error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Println("close error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Println("critical error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Println("non-critical error:", err)
		return ConnLoopBreak
	}

	log.Println("unexpected error:", err)
	return ConnLoopBreak
}

// Send writes msg to the opponent, retrying timeouts with backoff.
func (s *Session) Send(msg Message) error {
	frame, err := s.codec.Encode(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var retries uint8

writeLoop:
	for {
		if s.isClosed() {
			return cerr.ErrConnection(NewConnErr(ConnSessionClosed).AddDesc("session closed"))
		}

		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := s.conn.WriteMessage(s.codec.FrameType(), frame)
		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				log.Printf("writing %s failed to ws [%s]; retrying... (retry no. %d)\n", CodeName(msg.Code()), s.conn.RemoteAddr().String(), retries)
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue writeLoop
			}
			log.Printf("max retries reached for writing to ws [%s]:%s", s.conn.RemoteAddr().String(), err)
			return cerr.ErrConnection(NewConnErr(ConnLoopBreak).AddDesc(err.Error()))

		case ConnSessionClosed:
			return cerr.ErrConnection(NewConnErr(ConnSessionClosed).AddDesc(err.Error()))

		default:
			return cerr.ErrConnection(NewConnErr(ConnLoopBreak).AddDesc("breaking writeLoop due to: " + err.Error()))
		}
	}
}

// Receive reads the next message. Control frames are handled by
// the websocket library; a frame of the wrong type or one that does
// not decode is a protocol violation and leaves the session usable.
func (s *Session) Receive() (Message, error) {
	// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
	// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
	frameType, frame, err := s.conn.ReadMessage()
	if err != nil {
		code := s.onConnErr(err)
		if code == ConnSessionClosed {
			return nil, cerr.ErrConnection(NewConnErr(code).AddDesc("session closed"))
		}
		return nil, cerr.ErrConnection(NewConnErr(code).AddDesc(err.Error()))
	}

	if frameType != s.codec.FrameType() {
		return nil, cerr.ErrMalformedMessage("unexpected websocket frame type for codec " + s.codec.Name())
	}
	return s.codec.Decode(frame)
}

// Close says goodbye to the peer and releases the connection.
// Calling it more than once returns the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)

		var result *multierror.Error
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over")
		err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			result = multierror.Append(result, err)
		}
		if err := s.conn.Close(); err != nil {
			result = multierror.Append(result, err)
		}

		s.closeErr = result.ErrorOrNil()
		log.Printf("session closed\tid: %s\tgame: %s\n", s.id, s.gameUuid)
	})
	return s.closeErr
}

// IsClosedErr reports whether err comes from a session that was
// closed locally rather than from a broken connection.
func IsClosedErr(err error) bool {
	var connErr ConnErr
	return errors.As(err, &connErr) && connErr.Code() == ConnSessionClosed
}
