package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/models"
	"log"
	"os"
	"path/filepath"
)

// LocalKey is the single well-known key the signed-in principal is stored under.
const LocalKey = "userData"

// Snapshot is the persisted form of a signed-in principal.
type Snapshot struct {
	UserID             string      `json:"userId"`
	UserName           string      `json:"userName"`
	UserRole           models.Role `json:"userRole"`
	RegistrationNumber string      `json:"registrationNumber,omitempty"`
	Token              string      `json:"token"`
}

func (s *Snapshot) valid() bool {
	if s.UserID == "" || s.UserName == "" || s.Token == "" || !s.UserRole.Valid() {
		return false
	}
	if s.UserRole == models.RoleStudent && s.RegistrationNumber == "" {
		return false
	}
	return true
}

// Principal converts the snapshot back into a principal.
func (s *Snapshot) Principal() *models.Principal {
	return &models.Principal{
		ID:                 s.UserID,
		DisplayName:        s.UserName,
		Role:               s.UserRole,
		RegistrationNumber: s.RegistrationNumber,
	}
}

// LocalStore persists the signed-in principal in a JSON key/value file so a
// command-line session survives restarts.
type LocalStore struct {
	Path string
}

func NewLocalStore(path string) *LocalStore {
	return &LocalStore{Path: path}
}

func (l *LocalStore) readAll() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	raw, err := os.ReadFile(l.Path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("WARNING: Discarding unreadable session file %s: %v", l.Path, err)
		return map[string]json.RawMessage{}, nil
	}
	return entries, nil
}

func (l *LocalStore) writeAll(entries map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(l.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(l.Path, raw, 0o600)
}

func (l *LocalStore) Save(p *models.Principal, token string) error {
	entries, err := l.readAll()
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}
	snap := Snapshot{
		UserID:             p.ID,
		UserName:           p.DisplayName,
		UserRole:           p.Role,
		RegistrationNumber: p.RegistrationNumber,
		Token:              token,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	entries[LocalKey] = raw
	return l.writeAll(entries)
}

// Load returns the stored snapshot, or nil if there is none. Corrupt or
// incomplete entries are removed and treated as absent.
func (l *LocalStore) Load() *Snapshot {
	entries, err := l.readAll()
	if err != nil {
		log.Printf("WARNING: Failed to read session file %s: %v", l.Path, err)
		return nil
	}
	raw, ok := entries[LocalKey]
	if !ok {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil || !snap.valid() {
		log.Printf("WARNING: Discarding invalid %s entry", LocalKey)
		delete(entries, LocalKey)
		if err := l.writeAll(entries); err != nil {
			log.Printf("ERROR: Failed to rewrite session file: %v", err)
		}
		return nil
	}
	return &snap
}

func (l *LocalStore) Clear() error {
	entries, err := l.readAll()
	if err != nil {
		return err
	}
	if _, ok := entries[LocalKey]; !ok {
		return nil
	}
	delete(entries, LocalKey)
	return l.writeAll(entries)
}
