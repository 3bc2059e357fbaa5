// FILE: internal/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrDegraded = errors.New("storage is degraded")
	ErrClosed   = errors.New("storage is closed")
)

// write is one queued operation. A write with done set is a Sync barrier and carries no fn.
type write struct {
	fn   func(*sql.Tx) error
	done chan error
}

// Store handles SQLite database operations with async writes
type Store struct {
	db           *sql.DB
	path         string
	writeChan    chan write
	stopped      chan struct{} // closed when the writer exits
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeOnce    sync.Once
	closeErr     error
}

// NewStore creates a new storage instance with async writer
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	dsn := dataSourceName
	if !strings.Contains(dsn, "?") {
		// Foreign keys are per connection in SQLite; the DSN applies them to the whole pool
		dsn += "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode in development for better concurrency
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan write, 1000),
		stopped:   make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// writerLoop is the only goroutine that writes, so moves of one game land in order.
func (s *Store) writerLoop() {
	defer s.wg.Done()
	defer close(s.stopped)

	for {
		select {
		case <-s.ctx.Done():
			// Drain what is already queued, bounded by a deadline
			deadline := time.After(2 * time.Second)
			for {
				select {
				case w := <-s.writeChan:
					s.handle(w)
				case <-deadline:
					return
				default:
					return
				}
			}

		case w := <-s.writeChan:
			s.handle(w)
		}
	}
}

// handle runs w unless the store is degraded. Barriers are always answered.
func (s *Store) handle(w write) {
	healthy := s.healthStatus.Load()
	if w.done != nil {
		if healthy {
			w.done <- nil
		} else {
			w.done <- ErrDegraded
		}
		return
	}
	if healthy {
		s.executeWrite(w.fn)
	}
}

func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Storage degraded: failed to begin transaction: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("Storage degraded: write operation failed: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Storage degraded: failed to commit: %v", err)
		s.healthStatus.Store(false)
	}
}

// enqueue hands fn to the writer. Writes are dropped, not blocked on, when the store is
// degraded or the queue is full.
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}
	select {
	case s.writeChan <- write{fn: fn}:
	default:
		log.Printf("Storage write queue full, dropping %s", what)
	}
}

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (
			game_id, source, width, height, initial_board,
			white_kind, black_kind, depth, start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.Source, record.Width, record.Height, record.InitialBoard,
			record.WhiteKind, record.BlackKind, record.Depth, record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO moves (
			game_id, move_number, move, board_after_move,
			player_color, player_kind, captured, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.MoveNumber, record.Move, record.BoardAfterMove,
			record.PlayerColor, record.PlayerKind, record.Captured, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously stores how a game ended
func (s *Store) RecordResult(record ResultRecord) {
	s.enqueue("result record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games
			SET state = ?, winner = ?, turns = ?, final_board = ?, end_time_utc = ?
			WHERE game_id = ?`,
			record.State, record.Winner, record.Turns, record.FinalBoard, record.EndTimeUTC,
			record.GameID,
		)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo. The game is running again, so
// any recorded result is cleared as well.
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo operation", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE games
			SET state = 'ongoing', winner = '-', turns = 0, final_board = '', end_time_utc = NULL
			WHERE game_id = ?`, gameID)
		return err
	})
}

// Sync blocks until every write queued before it has been committed. It returns
// ErrDegraded when a queued write failed and ErrClosed once the store is closed.
func (s *Store) Sync(ctx context.Context) error {
	if !s.healthStatus.Load() {
		return ErrDegraded
	}
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	done := make(chan error, 1)
	select {
	case s.writeChan <- write{done: done}:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-s.stopped:
		// the writer may have answered just before exiting
		select {
		case err := <-done:
			return err
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsHealthy returns the current health status
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// Close stops the writer, draining queued writes, and closes the database
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			log.Printf("Warning: storage writer shutdown timeout, some writes may be lost")
		}

		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// ☣ DESTRUCTIVE: Removes database file
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}

// QueryGames retrieves games, filtered by id and by a player kind on either side.
// Empty or "*" disables a filter.
func (s *Store) QueryGames(gameID, kind string) ([]GameRecord, error) {
	query := `SELECT
		game_id, source, width, height, initial_board,
		white_kind, black_kind, depth, start_time_utc, end_time_utc,
		state, winner, turns, final_board
	FROM games WHERE 1=1`

	var args []interface{}

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if kind != "" && kind != "*" {
		query += " AND (white_kind = ? OR black_kind = ?)"
		args = append(args, kind, kind)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var (
			g   GameRecord
			end sql.NullTime
		)
		err := rows.Scan(
			&g.GameID, &g.Source, &g.Width, &g.Height, &g.InitialBoard,
			&g.WhiteKind, &g.BlackKind, &g.Depth, &g.StartTimeUTC, &end,
			&g.State, &g.Winner, &g.Turns, &g.FinalBoard,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if end.Valid {
			t := end.Time
			g.EndTimeUTC = &t
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns the recorded moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, move, board_after_move,
		player_color, player_kind, captured, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Move, &m.BoardAfterMove,
			&m.PlayerColor, &m.PlayerKind, &m.Captured, &m.MoveTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}

// Tally counts finished games by state
func (s *Store) Tally() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT state, COUNT(*) FROM games GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	tally := make(map[string]int)
	for rows.Next() {
		var (
			state string
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		tally[state] = n
	}
	return tally, rows.Err()
}
