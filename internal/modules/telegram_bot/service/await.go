package service

import (
	"sync"

	"futures_panel/internal/models"
)

// chatState: то, что панель помнит о чате между командами.
type chatState struct {
	snapshot []models.Position
	paper    bool
}

// chatStore: последний снимок позиций и режим paper по каждому чату.
// Снимок явно передаётся в close-all, повторного листинга нет.
type chatStore struct {
	mu           sync.Mutex
	m            map[int64]*chatState
	defaultPaper bool
}

func newChatStore(defaultPaper bool) *chatStore {
	return &chatStore{m: make(map[int64]*chatState), defaultPaper: defaultPaper}
}

func (s *chatStore) get(chatID int64) *chatState {
	st, ok := s.m[chatID]
	if !ok {
		st = &chatState{paper: s.defaultPaper}
		s.m[chatID] = st
	}
	return st
}

func (s *chatStore) setSnapshot(chatID int64, positions []models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(chatID).snapshot = clonePositions(positions)
}

// snapshot: копия последнего снимка; ok=false, если снимка нет.
func (s *chatStore) snapshot(chatID int64) ([]models.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[chatID]
	if !ok || st.snapshot == nil {
		return nil, false
	}
	return clonePositions(st.snapshot), true
}

func (s *chatStore) clearSnapshot(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.m[chatID]; ok {
		st.snapshot = nil
	}
}

func (s *chatStore) findPosition(chatID int64, id string) (models.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[chatID]
	if !ok {
		return models.Position{}, false
	}
	for _, p := range st.snapshot {
		if p.ID == id {
			return p, true
		}
	}
	return models.Position{}, false
}

func (s *chatStore) paper(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(chatID).paper
}

func (s *chatStore) togglePaper(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(chatID)
	st.paper = !st.paper
	return st.paper
}

func clonePositions(src []models.Position) []models.Position {
	dst := make([]models.Position, len(src))
	copy(dst, src)
	return dst
}
