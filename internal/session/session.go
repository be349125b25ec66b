// Package session holds the per-user analysis context.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajanjha2004/HotelData/internal/forecast"
	"github.com/rajanjha2004/HotelData/internal/ingredients"
	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/staffing"
)

// Params are the UI choices applied to one pipeline pass
type Params struct {
	From        time.Time          `json:"from,omitempty"`
	To          time.Time          `json:"to,omitempty"`
	GroupKey    models.GroupKey    `json:"key"`
	Metric      models.Metric      `json:"metric"`
	Granularity models.GroupKey    `json:"granularity"`
	Forecast    forecast.Params    `json:"forecast"`
	Ratio       float64            `json:"ratio"`
	Staffing    staffing.Policy    `json:"staffing"`
	Inventory   map[string]float64 `json:"inventory,omitempty"`
}

// DefaultParams returns the settings a new session starts with
func DefaultParams() Params {
	return Params{
		GroupKey:    models.KeyHourOfDay,
		Metric:      models.MetricCount,
		Granularity: models.KeyDaily,
		Forecast: forecast.Params{
			Horizon:    forecast.DefaultHorizon,
			Confidence: forecast.DefaultConfidence,
		},
		Ratio:    staffing.DefaultRatio,
		Staffing: staffing.DefaultPolicy(),
	}
}

// ErrNotFound is returned for unknown or ended sessions
var ErrNotFound = errors.New("session not found")

// Session owns a private copy of the loaded table
type Session struct {
	ID        string              `json:"id"`
	Table     *models.OrderTable  `json:"-"`
	Recipes   ingredients.Recipes `json:"-"`
	Params    Params              `json:"params"`
	CreatedAt time.Time           `json:"created_at"`
}

// Store maps session ids to sessions. The lock only guards the map; a session's
// table is never shared with another session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session holding a clone of table
func (s *Store) Create(table *models.OrderTable, recipes ingredients.Recipes, params Params) *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		Table:     table.Clone(),
		Recipes:   recipes,
		Params:    params,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a session by id
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Delete ends a session and releases its table
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of open sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
