package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saeidalz13/battleship-p2p/api"
	"github.com/saeidalz13/battleship-p2p/db"
	"github.com/saeidalz13/battleship-p2p/internal/config"
	"github.com/saeidalz13/battleship-p2p/internal/console"
)

const connectTimeout = time.Minute * 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var psqlDb *sql.DB
	if cfg.DatabaseUrl != "" {
		psqlDb = db.MustConnectToDb(cfg.DatabaseUrl)
	}

	peer := api.NewPeer(
		api.WithStage(cfg.Stage),
		api.WithRole(cfg.Role),
		api.WithPort(cfg.Port),
		api.WithPeerAddr(cfg.PeerAddr),
		api.WithCodec(cfg.Codec),
		api.WithPlayerName(cfg.PlayerName),
		api.WithDb(psqlDb),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsHost() {
		log.Printf("hosting game on port %d\n", cfg.Port)
	} else {
		log.Printf("joining game at %s\n", cfg.PeerAddr)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	err = peer.Connect(connectCtx)
	cancel()
	if err != nil {
		log.Println("could not connect to opponent:", err)
		_ = peer.Close()
		os.Exit(1)
	}

	engine := peer.Engine()
	cons := console.New(engine, os.Stdout, rand.New(rand.NewSource(time.Now().UnixNano())))
	engine.Subscribe(cons)

	played := make(chan error, 1)
	go func() { played <- peer.Play() }()

	go func() {
		if err := cons.Run(os.Stdin); err != nil {
			log.Println("console:", err)
		}
		stop()
	}()

	select {
	case err := <-played:
		if err != nil {
			log.Println("game ended with error:", err)
		}
	case <-ctx.Done():
		log.Println("shutting down...")
		if err := engine.Close(); err != nil {
			log.Println(err)
		}
		<-played
	}

	if err := peer.Close(); err != nil {
		log.Println(err)
	}
}
