package minisqlwire

import (
	"context"
	"fmt"
	"log"
	"net"
	"os/signal"
	"syscall"

	"github.com/tuannm99/minisql/internal/engine"
	"github.com/tuannm99/minisql/internal/sql/executor"
)

type ServerConfig struct {
	Addr string
}

// Run serves the wire protocol until SIGINT/SIGTERM. The caller owns the
// single long-lived Database and injects it here; every connection shares
// it through one executor, and each statement is evaluated fully before
// the next begins per table.
func Run(sc ServerConfig, db *engine.Database) error {
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer func() { _ = ln.Close() }()

	log.Printf("minisql tcp server listening on %s (db=%s dir=%s)", sc.Addr, db.Name, db.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	exec := executor.NewExecutor(db)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			log.Printf("accept: %v", err)
			continue
		}
		go handleConn(ctx, conn, exec)
	}
}

func handleConn(ctx context.Context, conn net.Conn, exec *executor.Executor) {
	defer func() { _ = conn.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var req ExecuteRequest
		if err := ReadFrame(conn, &req); err != nil {
			// Client closed or bad frame.
			return
		}

		// Execute never fails past its boundary; statement errors ride
		// inside the result envelope.
		res := exec.Execute(req.SQL)
		_ = WriteFrame(conn, ExecuteResponse{ID: req.ID, Result: res})
	}
}
