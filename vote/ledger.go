package vote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const ledgerVersion = 1

type ledgerFile struct {
	Version int                  `json:"version"`
	Votes   map[string]Direction `json:"votes"`
}

// Ledger remembers this voter's direction per review. A ledger without a path
// lives in memory only.
type Ledger struct {
	mu    sync.Mutex
	path  string
	votes map[int64]Direction
}

// DefaultLedgerPath is votes.json under the user's config directory.
func DefaultLedgerPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "edurate", "votes.json"), nil
}

func NewMemoryLedger() *Ledger {
	return &Ledger{votes: make(map[int64]Direction)}
}

// OpenLedger loads the ledger at path. A missing file is an empty ledger.
func OpenLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path, votes: make(map[int64]Direction)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read vote ledger: %w", err)
	}

	var f ledgerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vote ledger %s: %w", path, err)
	}
	if f.Version != ledgerVersion {
		return nil, fmt.Errorf("vote ledger %s: unsupported version %d", path, f.Version)
	}
	for key, dir := range f.Votes {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || (dir != Up && dir != Down) {
			continue
		}
		l.votes[id] = dir
	}
	return l, nil
}

func (l *Ledger) Get(reviewID int64) Direction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.votes[reviewID]
}

// Set records dir for reviewID and persists the ledger. On a write failure the
// in-memory state is rolled back.
func (l *Ledger) Set(reviewID int64, dir Direction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, had := l.votes[reviewID]
	if dir == None {
		delete(l.votes, reviewID)
	} else {
		l.votes[reviewID] = dir
	}

	if err := l.save(); err != nil {
		if had {
			l.votes[reviewID] = prev
		} else {
			delete(l.votes, reviewID)
		}
		return err
	}
	return nil
}

func (l *Ledger) Snapshot() map[int64]Direction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[int64]Direction, len(l.votes))
	for k, v := range l.votes {
		out[k] = v
	}
	return out
}

func (l *Ledger) save() error {
	if l.path == "" {
		return nil
	}

	f := ledgerFile{Version: ledgerVersion, Votes: make(map[string]Direction, len(l.votes))}
	for id, dir := range l.votes {
		f.Votes[strconv.FormatInt(id, 10)] = dir
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vote ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write vote ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace vote ledger: %w", err)
	}
	return nil
}
