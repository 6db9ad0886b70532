package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/justyntemme/dragdrop"
	"github.com/justyntemme/dragdrop/internal/debug"
)

type EventType int

const (
	Record EventType = iota
	FetchRecent
	Prune
)

type Request struct {
	Op      EventType
	Outcome dragdrop.Outcome
	Limit   int // FetchRecent: rows to return; Prune: rows to keep
}

type Response struct {
	Op      EventType
	Entries []Entry
	Removed int64
	Err     error
}

// Entry is one journaled dispatch.
type Entry struct {
	ID          int64
	Phase       string
	Handled     bool
	HandledBy   int
	Failures    int
	Effect      dragdrop.DropEffect
	PayloadKind string
	ItemCount   int
	Keys        dragdrop.KeyState
	At          time.Time
}

// Journal records dispatch outcomes to sqlite on its own goroutine.
// Producers go through Send; RequestChan is closed by Close.
type Journal struct {
	conn         *sql.DB
	RequestChan  chan Request
	ResponseChan chan Response

	mu      sync.RWMutex
	closing bool
	started bool
	done    chan struct{}
}

func NewJournal() *Journal {
	return &Journal{
		RequestChan:  make(chan Request, 64),
		ResponseChan: make(chan Response, 10),
		done:         make(chan struct{}),
	}
}

// Open initializes the database connection and schema
func (j *Journal) Open(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}

	query := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		phase        TEXT NOT NULL,
		handled      INTEGER NOT NULL,
		handled_by   INTEGER NOT NULL,
		failures     INTEGER NOT NULL,
		effect       INTEGER NOT NULL,
		payload_kind TEXT NOT NULL,
		item_count   INTEGER NOT NULL,
		keys         INTEGER NOT NULL,
		at           INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return err
	}

	j.conn = db
	debug.Log(debug.STORE, "journal opened at %s", dbPath)
	return nil
}

// Start serves requests until Close is called.
func (j *Journal) Start() {
	j.mu.Lock()
	j.started = true
	j.mu.Unlock()
	defer close(j.done)

	for req := range j.RequestChan {
		switch req.Op {
		case Record:
			if err := j.insert(req.Outcome); err != nil {
				debug.Log(debug.STORE, "record failed: %v", err)
			}
		case FetchRecent:
			entries, err := j.recent(req.Limit)
			j.ResponseChan <- Response{Op: FetchRecent, Entries: entries, Err: err}
		case Prune:
			n, err := j.prune(req.Limit)
			j.ResponseChan <- Response{Op: Prune, Removed: n, Err: err}
		}
	}
}

// Send queues req without blocking. It reports false when the queue is full or the
// journal is closed.
func (j *Journal) Send(req Request) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closing {
		return false
	}
	select {
	case j.RequestChan <- req:
		return true
	default:
		return false
	}
}

// Observer adapts the journal into a dispatcher observer. Outcomes are dropped rather
// than blocking dispatch when the request queue is full.
func (j *Journal) Observer() dragdrop.Observer {
	return func(o dragdrop.Outcome) {
		if !j.Send(Request{Op: Record, Outcome: o}) {
			debug.Log(debug.STORE, "journal queue full or closed, dropping %s outcome", o.Phase)
		}
	}
}

func (j *Journal) insert(o dragdrop.Outcome) error {
	_, err := j.conn.Exec(
		`INSERT INTO dispatches (phase, handled, handled_by, failures, effect, payload_kind, item_count, keys, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Phase.String(), o.Handled, o.HandledBy, o.Failures, int64(o.Effect),
		o.Payload.Kind().String(), o.Payload.Len(), int64(o.Keys), o.At.UnixNano(),
	)
	return err
}

func (j *Journal) recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.conn.Query(
		`SELECT id, phase, handled, handled_by, failures, effect, payload_kind, item_count, keys, at
		 FROM dispatches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var effect, keys, at int64
		if err := rows.Scan(&e.ID, &e.Phase, &e.Handled, &e.HandledBy, &e.Failures,
			&effect, &e.PayloadKind, &e.ItemCount, &keys, &at); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		e.Effect = dragdrop.DropEffect(effect)
		e.Keys = dragdrop.KeyState(keys)
		e.At = time.Unix(0, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *Journal) prune(keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := j.conn.Exec(
		`DELETE FROM dispatches WHERE id NOT IN (SELECT id FROM dispatches ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close stops accepting requests, waits for Start to drain the queue, then closes the
// database. It is safe to call more than once.
func (j *Journal) Close() {
	j.mu.Lock()
	if !j.closing {
		j.closing = true
		close(j.RequestChan)
	}
	started := j.started
	j.mu.Unlock()

	if started {
		<-j.done
	}
	if j.conn != nil {
		j.conn.Close()
	}
}
