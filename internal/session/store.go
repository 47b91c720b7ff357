// Package session keeps server-side session state: the authenticated
// principal, queued flash messages and per-record dialog state. Entries
// live in an in-memory indexed store and die with the process.
package session

import (
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	memdb "github.com/hashicorp/go-memdb"

	"github.com/sophieizhu/biodex/internal/model"
)

const (
	sessionTable = "session"
	flashTable   = "flash"
	editorTable  = "editor_state"

	pk = "id"
)

// Session is an authenticated browser session.
type Session struct {
	Token       string
	UserID      model.UserID
	Email       string
	DisplayName string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Flash is a transient notification queued for the session's next page
// render. Seq preserves push order within a session.
type Flash struct {
	ID        string
	Token     string
	Text      string
	Kind      string
	Seq       uint64
	CreatedAt time.Time
}

// editorEntry holds a serialized dialog snapshot for one (session,
// record) pair.
type editorEntry struct {
	ID       string // token + ":" + record id
	Token    string
	RecordID int64
	Snapshot []byte
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			sessionTable: {
				Name: sessionTable,
				Indexes: map[string]*memdb.IndexSchema{
					pk: {
						Name:    pk,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Token"},
					},
					"user": {
						Name:    "user",
						Indexer: &memdb.StringFieldIndex{Field: "UserID"},
					},
				},
			},
			flashTable: {
				Name: flashTable,
				Indexes: map[string]*memdb.IndexSchema{
					pk: {
						Name:    pk,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"session": {
						Name:    "session",
						Indexer: &memdb.StringFieldIndex{Field: "Token"},
					},
				},
			},
			editorTable: {
				Name: editorTable,
				Indexes: map[string]*memdb.IndexSchema{
					pk: {
						Name:    pk,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"session": {
						Name:    "session",
						Indexer: &memdb.StringFieldIndex{Field: "Token"},
					},
				},
			},
		},
	}
}

// Store is the in-memory session database.
type Store struct {
	db  *memdb.MemDB
	ttl time.Duration
	seq uint64
}

func NewStore(ttl time.Duration) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Start opens a session for the user and returns it with a fresh token.
func (s *Store) Start(u *model.User) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		Token:       uuid.New().String(),
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(sessionTable, sess); err != nil {
		return nil, err
	}
	txn.Commit()
	return sess, nil
}

// Get resolves a token. Expired sessions are destroyed on sight.
func (s *Store) Get(token string) (*Session, error) {
	txn := s.db.Txn(false)
	raw, err := txn.First(sessionTable, pk, token)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, model.ErrNotFound
	}

	sess := raw.(*Session)
	if sess.Expired(time.Now().UTC()) {
		_ = s.Destroy(token)
		return nil, model.ErrNotFound
	}
	return sess, nil
}

// Destroy removes the session and everything queued under it.
func (s *Store) Destroy(token string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(sessionTable, pk, token); err != nil {
		return err
	}
	if _, err := txn.DeleteAll(flashTable, "session", token); err != nil {
		return err
	}
	if _, err := txn.DeleteAll(editorTable, "session", token); err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// PushFlash queues a notification for the session.
func (s *Store) PushFlash(token, text, kind string) error {
	f := &Flash{
		ID:        uuid.New().String(),
		Token:     token,
		Text:      text,
		Kind:      kind,
		Seq:       atomic.AddUint64(&s.seq, 1),
		CreatedAt: time.Now().UTC(),
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(flashTable, f); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// PopFlashes drains the session's queued notifications, oldest first.
// Each flash is delivered exactly once.
func (s *Store) PopFlashes(token string) ([]Flash, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(flashTable, "session", token)
	if err != nil {
		return nil, err
	}

	var flashes []Flash
	for raw := it.Next(); raw != nil; raw = it.Next() {
		flashes = append(flashes, *raw.(*Flash))
	}
	sort.Slice(flashes, func(i, j int) bool {
		return flashes[i].Seq < flashes[j].Seq
	})

	if _, err := txn.DeleteAll(flashTable, "session", token); err != nil {
		return nil, err
	}

	txn.Commit()
	return flashes, nil
}

// SaveEditorState stores a dialog snapshot for the (session, record)
// pair, replacing any previous one.
func (s *Store) SaveEditorState(token string, recordID int64, snapshot []byte) error {
	e := &editorEntry{
		ID:       editorKey(token, recordID),
		Token:    token,
		RecordID: recordID,
		Snapshot: snapshot,
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(editorTable, e); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// LoadEditorState returns the stored snapshot, or model.ErrNotFound
// when no dialog state exists for the pair.
func (s *Store) LoadEditorState(token string, recordID int64) ([]byte, error) {
	txn := s.db.Txn(false)
	raw, err := txn.First(editorTable, pk, editorKey(token, recordID))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, model.ErrNotFound
	}
	return raw.(*editorEntry).Snapshot, nil
}

// ClearEditorState drops dialog state for the pair, if any.
func (s *Store) ClearEditorState(token string, recordID int64) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(editorTable, pk, editorKey(token, recordID)); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func editorKey(token string, recordID int64) string {
	return fmt.Sprintf("%s:%s", token, strconv.FormatInt(recordID, 10))
}
