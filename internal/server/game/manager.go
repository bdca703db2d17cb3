package game

import (
	"sync"

	"github.com/google/uuid"

	"castles/internal/castles"
)

// PositionFactory 开新局时摆出初始局面
type PositionFactory func() (*castles.Position, error)

type Manager struct {
	mu     sync.RWMutex
	games  map[string]*GameState
	newPos PositionFactory
}

func NewManager(newPos PositionFactory) *Manager {
	if newPos == nil {
		newPos = func() (*castles.Position, error) {
			return castles.NewStandardPosition(castles.DefaultWidth, castles.DefaultHeight)
		}
	}
	return &Manager{games: make(map[string]*GameState), newPos: newPos}
}

func (m *Manager) NewGame() (*GameState, error) {
	pos, err := m.newPos()
	if err != nil {
		return nil, err
	}
	return m.Add(pos)
}

// Add 用给定局面开一局（比如客户端上传的局面编码）
func (m *Manager) Add(pos *castles.Position) (*GameState, error) {
	g, err := NewGameState(uuid.NewString(), pos)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return g, nil
}

func (m *Manager) Get(id string) (*GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
