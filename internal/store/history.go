// Package store persists chat histories and user credentials in flat JSON
// files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"personachat/internal/models"
)

// historyRecord is the on-disk shape of one (user, persona) session.
type historyRecord struct {
	NextID   int64                `json:"next_id"`
	Messages []models.ChatMessage `json:"messages"`
}

// HistoryStore keeps all chat sessions in a single JSON file keyed by
// "user_persona". Every read-modify-write cycle holds the store lock, so
// concurrent appends to the same file cannot lose updates; all keys share
// the file, so the lock is store-wide rather than per key.
type HistoryStore struct {
	path string
	mu   sync.Mutex
}

// NewHistoryStore opens (or will create on first write) the store file.
func NewHistoryStore(path string) (*HistoryStore, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &HistoryStore{path: path}, nil
}

func sessionKey(userID string, p models.Persona) string {
	return userID + "_" + string(p)
}

// Append stores a new message for the (user, persona) pair and returns it
// with its assigned id and timestamp.
func (s *HistoryStore) Append(userID string, p models.Persona, role models.Role, content string, src *models.SourceRef) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	key := sessionKey(userID, p)
	record := records[key]
	record.NextID++

	msg := models.ChatMessage{
		ID:        record.NextID,
		UserID:    userID,
		Persona:   p,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Source:    src,
	}
	record.Messages = append(record.Messages, msg)
	records[key] = record

	if err := s.save(records); err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns the ordered messages for the pair; empty slice when none.
func (s *HistoryStore) List(userID string, p models.Persona) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	record := records[sessionKey(userID, p)]
	if len(record.Messages) == 0 {
		return []models.ChatMessage{}, nil
	}
	out := make([]models.ChatMessage, len(record.Messages))
	copy(out, record.Messages)
	return out, nil
}

// Clear removes all messages for the pair; clearing an absent key is a no-op.
func (s *HistoryStore) Clear(userID string, p models.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	key := sessionKey(userID, p)
	if _, ok := records[key]; !ok {
		return nil
	}
	delete(records, key)
	return s.save(records)
}

func (s *HistoryStore) load() (map[string]historyRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]historyRecord{}, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	records := map[string]historyRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}
	return records, nil
}

func (s *HistoryStore) save(records map[string]historyRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
