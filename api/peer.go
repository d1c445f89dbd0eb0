package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/saeidalz13/battleship-p2p/db/sqlc"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
	"github.com/sqlc-dev/pqtype"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	RoleHost = "host"
	RoleJoin = "join"

	defaultPort = 9191
)

// Peer is one side of a game: it connects to the opponent, owns the
// engine for the game and records the result when a database is set.
type Peer struct {
	role       string
	stage      string
	port       int
	peerAddr   string
	playerName string
	codec      mc.Codec
	fleet      []int

	db        *sql.DB
	dbManager *sqlc.DbManager

	session *mc.Session
	engine  *Engine
}

type Option func(*Peer) error

func NewPeer(optFuncs ...Option) *Peer {
	peer := Peer{
		role:  RoleHost,
		stage: StageDev,
		port:  defaultPort,
		codec: mc.JSONCodec{},
		fleet: mb.StandardFleet,
	}
	for _, opt := range optFuncs {
		if err := opt(&peer); err != nil {
			panic(err)
		}
	}
	if peer.role == RoleJoin && peer.peerAddr == "" {
		panic("joining a game requires the address of the host")
	}
	return &peer
}

func WithRole(role string) Option {
	return func(p *Peer) error {
		if role != RoleHost && role != RoleJoin {
			return fmt.Errorf("invalid role: %s", role)
		}
		p.role = role
		return nil
	}
}

func WithPort(port int) Option {
	return func(p *Peer) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		p.port = port
		return nil
	}
}

func WithPeerAddr(addr string) Option {
	return func(p *Peer) error {
		p.peerAddr = addr
		return nil
	}
}

func WithStage(stage string) Option {
	return func(p *Peer) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		p.stage = stage
		return nil
	}
}

func WithCodec(name string) Option {
	return func(p *Peer) error {
		codec, err := mc.NewCodec(name)
		if err != nil {
			return err
		}
		p.codec = codec
		return nil
	}
}

func WithPlayerName(name string) Option {
	return func(p *Peer) error {
		p.playerName = name
		return nil
	}
}

// WithFleet overrides the standard fleet; both peers must use the same.
func WithFleet(lengths []int) Option {
	return func(p *Peer) error {
		if len(lengths) == 0 {
			return errors.New("fleet must have at least one ship")
		}
		for _, l := range lengths {
			if l < 1 || l > mb.GridSize {
				return fmt.Errorf("invalid ship length in fleet: %d", l)
			}
		}
		p.fleet = lengths
		return nil
	}
}

func WithDb(db *sql.DB) Option {
	return func(p *Peer) error {
		if db == nil {
			return nil
		}
		dm := sqlc.NewDbManager(sqlc.New(db))
		p.db = db
		p.dbManager = &dm
		return nil
	}
}

func (p *Peer) Role() string {
	return p.role
}

func (p *Peer) Stage() string {
	return p.stage
}

// Engine is nil until Connect succeeded.
func (p *Peer) Engine() *Engine {
	return p.engine
}

// Connect waits for (host) or dials (join) the opponent and prepares
// a fresh game. The host moves first.
func (p *Peer) Connect(ctx context.Context) error {
	var (
		session *mc.Session
		err     error
	)

	switch p.role {
	case RoleHost:
		session, err = mc.Listen(ctx, fmt.Sprintf("0.0.0.0:%d", p.port), p.codec, p.playerName)
	default:
		session, err = mc.Dial(ctx, p.peerAddr, p.codec, p.playerName)
	}
	if err != nil {
		return err
	}

	p.session = session
	game := mb.NewGameState(p.role == RoleHost, mb.WithFleet(p.fleet))
	p.engine = NewEngine(game, session)

	log.Printf("connected\trole: %s\tgame: %s\topponent: %s\tcodec: %s\n", p.role, session.GameUuid(), session.PeerName(), p.codec.Name())
	return nil
}

// Play runs the game to its end and records the result.
func (p *Peer) Play() error {
	if p.engine == nil {
		return errors.New("peer is not connected")
	}

	runErr := p.engine.Run()
	if err := p.recordResult(); err != nil {
		log.Println("failed to record game result:", err)
	}
	return runErr
}

func (p *Peer) recordResult() error {
	if p.dbManager == nil {
		return nil
	}

	gameUuid, err := uuid.Parse(p.session.GameUuid())
	if err != nil {
		log.Printf("invalid game uuid from handshake\tgame: %q\n", p.session.GameUuid())
		gameUuid = uuid.New()
	}

	stats := p.engine.Stats()
	arg := sqlc.InsertGameResultParams{
		GameUuid:   gameUuid,
		Role:       p.role,
		Outcome:    outcomeName(p.engine.Outcome()),
		ShotsFired: int32(stats.ShotsFired),
		HitsLanded: int32(stats.HitsLanded),
		HitsTaken:  int32(stats.HitsTaken),
		PeerIp:     addrInet(p.session.RemoteAddr()),
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	return p.dbManager.RecordGame(ctx, addrInet(p.session.LocalAddr()), arg)
}

func outcomeName(o mb.Outcome) string {
	switch o {
	case mb.OutcomeWon:
		return sqlc.OutcomeWon
	case mb.OutcomeLost:
		return sqlc.OutcomeLost
	}
	return sqlc.OutcomeAborted
}

// addrInet turns a tcp address into a single host inet value.
func addrInet(addr net.Addr) pqtype.Inet {
	if addr == nil {
		return pqtype.Inet{}
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		log.Println("failed to extract host from addr:", addr.String())
		return pqtype.Inet{}
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return pqtype.Inet{}
	}
	if v4 := ip.To4(); v4 != nil {
		return pqtype.Inet{IPNet: net.IPNet{IP: v4, Mask: net.CIDRMask(32, 32)}, Valid: true}
	}
	return pqtype.Inet{IPNet: net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, Valid: true}
}

// Close ends the game and releases the connection and the database.
func (p *Peer) Close() error {
	var result *multierror.Error

	if p.engine != nil {
		if err := p.engine.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
