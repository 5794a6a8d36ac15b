// ABOUTME: Process-wide session holder shared by every view-model
// ABOUTME: Created at login, cleared at logout, safe for concurrent use

package session

import "sync"

// Session is the authenticated identity returned by login
type Session struct {
	Token  string   `json:"token"`
	UserID string   `json:"userId"`
	Groups []string `json:"groups,omitempty"`
}

// Valid reports whether both token and user id are present
func (s Session) Valid() bool {
	return s.Token != "" && s.UserID != ""
}

// Store holds at most one session. An empty store means logged out.
type Store struct {
	mu      sync.RWMutex
	current Session
}

// NewStore returns a store seeded with s. Pass a zero Session for a logged-out store.
func NewStore(s Session) *Store {
	st := &Store{}
	st.Set(s)
	return st
}

// Set replaces the current session
func (st *Store) Set(s Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.Groups = append([]string(nil), s.Groups...)
	st.current = s
}

// Clear drops the current session
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = Session{}
}

// Current returns a copy of the session and whether it is usable
func (st *Store) Current() (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s := st.current
	s.Groups = append([]string(nil), s.Groups...)
	return s, s.Valid()
}

// Token implements client.TokenSource
func (st *Store) Token() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.Token
}

// UserID returns the logged-in user's id, or ""
func (st *Store) UserID() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.UserID
}

// Groups returns the known group ids in the order they were learned
func (st *Store) Groups() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]string(nil), st.current.Groups...)
}

// AddGroup records a group id unless it is already known
func (st *Store) AddGroup(id string) {
	if id == "" {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, g := range st.current.Groups {
		if g == id {
			return
		}
	}
	st.current.Groups = append(st.current.Groups, id)
}
