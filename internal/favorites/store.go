package favorites

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/five82/lunchbox/internal/mealdb"
	"github.com/five82/lunchbox/internal/session"
)

// StorageKey is the session storage key holding the serialized collection.
const StorageKey = "lunchFavorites"

// Entry is a summary of a meal taken when it was favorited. It does not follow
// later changes to the meal.
type Entry struct {
	ID        string    `json:"idMeal"`
	Title     string    `json:"strMeal"`
	Thumbnail string    `json:"strMealThumb"`
	Category  string    `json:"strCategory"`
	Area      string    `json:"strArea"`
	SavedAt   time.Time `json:"savedAt"`
}

// FromMeal projects a meal into an entry stamped with savedAt.
func FromMeal(m mealdb.Meal, savedAt time.Time) Entry {
	return Entry{
		ID:        m.ID,
		Title:     m.Title,
		Thumbnail: m.Thumbnail,
		Category:  m.Category,
		Area:      m.Area,
		SavedAt:   savedAt,
	}
}

// Store is the ordered favorites collection mirrored to session storage after
// every mutation.
type Store struct {
	mu      sync.RWMutex
	storage session.Storage
	entries []Entry
	now     func() time.Time
	logger  hclog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source for new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for storage problems.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the collection from storage. It never fails: unreadable or
// malformed content yields an empty collection.
func Open(storage session.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = load(storage, s.logger)
	return s
}

// Load reads the collection from storage, returning an empty collection when
// the key is absent or its content is malformed.
func Load(storage session.Storage) []Entry {
	return load(storage, hclog.NewNullLogger())
}

func load(storage session.Storage, logger hclog.Logger) []Entry {
	if storage == nil {
		return nil
	}
	raw, ok, err := storage.Get(StorageKey)
	if err != nil {
		logger.Warn("favorites unreadable, starting empty", "error", err)
		return nil
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("favorites malformed, starting empty", "error", err)
		return nil
	}
	return dedupe(entries)
}

// Persist serializes entries and overwrites the stored value.
func Persist(storage session.Storage, entries []Entry) error {
	if storage == nil {
		return nil
	}
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	if err := storage.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

// Add appends meal unless an entry with its id exists. It reports whether the
// collection changed. On a storage error the collection is left unchanged.
func (s *Store) Add(m mealdb.Meal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(m.ID) >= 0 {
		return false, nil
	}
	next := append(slices.Clip(s.entries), FromMeal(m, s.now()))
	if err := Persist(s.storage, next); err != nil {
		s.logger.Error("add favorite failed", "meal", m.ID, "error", err)
		return false, err
	}
	s.entries = next
	s.logger.Debug("favorite added", "meal", m.ID, "count", len(next))
	return true, nil
}

// Remove drops any entry with id and persists the result. A missing id is not
// an error.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.entries), func(e Entry) bool { return e.ID == id })
	if err := Persist(s.storage, next); err != nil {
		s.logger.Error("remove favorite failed", "meal", id, "error", err)
		return err
	}
	s.entries = next
	s.logger.Debug("favorite removed", "meal", id, "count", len(next))
	return nil
}

// Toggle removes id when present and adds m otherwise. It returns the new
// membership state.
func (s *Store) Toggle(m mealdb.Meal) (bool, error) {
	if s.IsFavorite(m.ID) {
		if err := s.Remove(m.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if _, err := s.Add(m); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether an entry with id is present.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Entries returns a copy of the collection in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
}

// dedupe keeps the first entry for each id so hand-edited storage cannot break
// the uniqueness invariant.
func dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
