package services

import (
	"context"
	"sync"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/google/uuid"
)

type fixtureSlot struct {
	round, index int
}

// Session is the in-memory engine state of one tournament. Every mutation
// must hold the session lock.
type Session struct {
	mu sync.Mutex

	TournamentID uuid.UUID
	league       *brackets.League
	fixtureIDs   map[fixtureSlot]int
	roundIDs     map[int]int
	bracket      *brackets.Bracket

	// statusBeforeKnockout is restored when the bracket is reset.
	statusBeforeKnockout models.TournamentStatus

	lastSeen time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// clearCompetition forgets the league and bracket after their stored rows
// were discarded.
func (s *Session) clearCompetition() {
	s.league = nil
	s.fixtureIDs = nil
	s.roundIDs = nil
	s.bracket.Reset()
	s.statusBeforeKnockout = ""
}

// SessionStore keeps one Session per tournament.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	shuffler brackets.Shuffler
	now      func() time.Time
}

func NewSessionStore(shuffler brackets.Shuffler) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		shuffler: shuffler,
		now:      time.Now,
	}
}

// Get returns the tournament's session, creating an empty one on first use.
// Callers outside tests go through openSession so that only stored
// tournaments get a session.
func (s *SessionStore) Get(tournamentID uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[tournamentID]
	if !ok {
		sess = &Session{
			TournamentID: tournamentID,
			bracket:      brackets.NewBracket(s.shuffler),
		}
		s.sessions[tournamentID] = sess
	}
	sess.lastSeen = s.now()
	return sess
}

func (s *SessionStore) Touch(tournamentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[tournamentID]; ok {
		sess.lastSeen = s.now()
	}
}

func (s *SessionStore) Delete(tournamentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tournamentID)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle drops sessions not used for longer than ttl and returns how many
// were removed. A league is rebuilt from storage on the next access.
func (s *SessionStore) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// openSession returns the locked session of a stored tournament together with
// the tournament row read under the lock. The caller must Unlock.
func openSession(ctx context.Context, sessions *SessionStore, repo repositories.TournamentRepository, id uuid.UUID) (*Session, *models.Tournament, error) {
	if _, err := repo.GetByID(ctx, nil, id); err != nil {
		return nil, nil, handleRepositoryError(err)
	}

	sess := sessions.Get(id)
	sess.Lock()
	t, err := repo.GetByID(ctx, nil, id)
	if err != nil {
		sess.Unlock()
		return nil, nil, handleRepositoryError(err)
	}
	return sess, t, nil
}
