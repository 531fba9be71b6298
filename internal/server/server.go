package server

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/riteshkumar/payments-engine/internal/csvio"
	"github.com/riteshkumar/payments-engine/internal/engine"
	"github.com/riteshkumar/payments-engine/internal/errors"
	"github.com/riteshkumar/payments-engine/internal/models"
)

// Server owns the shared engine for service mode. A single mutex
// serializes access: each connection applies exactly one transaction and
// reads the resulting snapshot under the lock, and the lock is never held
// across network I/O.
type Server struct {
	mu     sync.Mutex
	engine *engine.Engine
	logger *slog.Logger
}

func New(eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine: eng,
		logger: logger,
	}
}

// Serve accepts connections until the listener is closed, handling each
// one on its own goroutine. A slow client holds its goroutine, never the
// lock.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("transaction listener started", "addr", listener.Addr().String())
	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn reads one transaction line, applies it, and replies with the
// full account snapshot, or with the error text if the transaction was
// rejected.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.New().String()
	logger := s.logger.With("conn_id", connID, "remote_addr", conn.RemoteAddr().String())

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && err != io.EOF {
		logger.Warn("failed to read request line", "error", err.Error())
		return
	}
	if line == "" {
		logger.Warn("empty request")
		io.WriteString(conn, "empty request\n")
		return
	}

	tx, err := csvio.ParseLine(line)
	if err != nil {
		logger.Warn("malformed transaction line", "error", err.Error())
		io.WriteString(conn, err.Error()+"\n")
		return
	}

	snapshot, err := s.ApplyAndSnapshot(tx)
	if err != nil {
		// a bad reference is a client bug, a rejected charge is business
		// as usual
		if errors.IsUnknownTransaction(err) || errors.IsNotDisputable(err) {
			logger.Warn("malformed transaction reference",
				"type", string(tx.Type),
				"tx", tx.Tx,
				"error", err.Error(),
			)
		} else {
			logger.Info("transaction rejected",
				"type", string(tx.Type),
				"client", tx.Client,
				"tx", tx.Tx,
				"error", err.Error(),
			)
		}
		io.WriteString(conn, err.Error()+"\n")
		return
	}

	logger.Info("transaction applied",
		"type", string(tx.Type),
		"client", tx.Client,
		"tx", tx.Tx,
	)

	var buf bytes.Buffer
	if err := csvio.Write(&buf, snapshot, false); err != nil {
		logger.Error("failed to render snapshot", "error", err.Error())
		return
	}
	if _, err := conn.Write(buf.Bytes()); err != nil {
		logger.Warn("failed to write response", "error", err.Error())
	}
}

// ApplyAndSnapshot applies one transaction and reads the full snapshot as
// a single atomic step.
func (s *Server) ApplyAndSnapshot(tx models.Transaction) ([]models.AccountSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Apply(tx); err != nil {
		return nil, err
	}
	return s.engine.Snapshot(), nil
}

// Snapshot reads the current account states under the lock.
func (s *Server) Snapshot() []models.AccountSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}
