// ABOUTME: In-memory Howudoin backend for tests, served over httptest with chi
// ABOUTME: Mirrors the REST contract, counts calls per route, and allows per-route overrides

package testbackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/howudoin/howudoin-cli/internal/client"
)

// Route names used by Calls and Override
const (
	RouteRegister     = "POST /register"
	RouteLogin        = "POST /login"
	RouteFriends      = "GET /friends"
	RouteFriendAdd    = "POST /friends/add"
	RouteFriendAccept = "POST /friends/accept"
	RouteMessages     = "GET /messages"
	RouteMessageSend  = "POST /messages/send"
	RouteGroupCreate  = "POST /groups/create"
	RouteGroupMembers = "GET /groups/{id}/members"
	RouteGroupAdd     = "POST /groups/{id}/add-member"
	RouteGroupHistory = "GET /groups/{id}/messages"
	RouteGroupSend    = "POST /groups/{id}/send"
)

// Wire formats the real backend uses
const (
	directTimeLayout = "2006-01-02T15:04:05.000"
	groupTimeLayout  = "Mon Jan 02 15:04:05 MST 2006"
)

type user struct {
	client.Friend
	password string
	groups   []string
}

type group struct {
	id        string
	name      string
	createdAt time.Time
	members   []string
	messages  []client.Message
}

// Server is a fake backend. All state is guarded by mu.
type Server struct {
	*httptest.Server

	// Now supplies message timestamps; tests may pin it
	Now func() time.Time

	mu        sync.Mutex
	users     map[string]*user
	order     []string
	tokens    map[string]string
	direct    []client.Message
	groups    map[string]*group
	calls     map[string]int
	overrides map[string]http.HandlerFunc
	nextID    int
}

// New starts a fake backend. Close it when done.
func New() *Server {
	s := &Server{
		Now:       time.Now,
		users:     make(map[string]*user),
		tokens:    make(map[string]string),
		groups:    make(map[string]*group),
		calls:     make(map[string]int),
		overrides: make(map[string]http.HandlerFunc),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", s.track(RouteRegister, s.handleRegister))
	r.Post("/login", s.track(RouteLogin, s.handleLogin))

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/friends", s.track(RouteFriends, s.handleFriends))
		r.Post("/friends/add", s.track(RouteFriendAdd, s.handleFriendAdd))
		r.Post("/friends/accept", s.track(RouteFriendAccept, s.handleFriendAccept))

		r.Get("/messages", s.track(RouteMessages, s.handleMessages))
		r.Post("/messages/send", s.track(RouteMessageSend, s.handleMessageSend))

		r.Route("/groups", func(r chi.Router) {
			r.Post("/create", s.track(RouteGroupCreate, s.handleGroupCreate))
			r.Get("/{id}/members", s.track(RouteGroupMembers, s.handleGroupMembers))
			r.Post("/{id}/add-member", s.track(RouteGroupAdd, s.handleGroupAdd))
			r.Get("/{id}/messages", s.track(RouteGroupHistory, s.handleGroupHistory))
			r.Post("/{id}/send", s.track(RouteGroupSend, s.handleGroupSend))
		})
	})

	return r
}

// track counts the call and dispatches to an override when one is set
func (s *Server) track(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		override := s.overrides[route]
		s.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		h(w, r)
	}
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		s.mu.Lock()
		_, ok := s.tokens[token]
		s.mu.Unlock()

		if token == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": client.MsgUnauthorized})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Calls returns how many requests reached route
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests across all routes
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Override replaces the handler for route. Calls are still counted.
func (s *Server) Override(route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = h
}

// SeedUser registers a user directly and returns its id
func (s *Server) SeedUser(name, lastName, email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, lastName, email, password)
}

// TokenFor issues a token for userID without going through /login
func (s *Server) TokenFor(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokenLocked(userID)
}

// MakeFriends links two users in both directions
func (s *Server) MakeFriends(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linkLocked(a, b)
}

// SeedDirectMessage stores a direct message as if it had been sent
func (s *Server) SeedDirectMessage(senderID, receiverID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direct = append(s.direct, s.directMessageLocked(senderID, receiverID, content))
}

// Pending returns the pending friend request ids for userID
func (s *Server) Pending(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return append([]string(nil), u.PendingFriendRequests...)
	}
	return nil
}

// GroupMembers returns the member ids of a group
func (s *Server) GroupMembers(groupID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.groups[groupID]; ok {
		return append([]string(nil), g.members...)
	}
	return nil
}

func (s *Server) addUserLocked(name, lastName, email, password string) string {
	s.nextID++
	id := fmt.Sprintf("u%d", s.nextID)
	s.users[id] = &user{
		Friend: client.Friend{
			ID:                    id,
			Name:                  name,
			LastName:              lastName,
			Email:                 email,
			Friends:               []string{},
			PendingFriendRequests: []string{},
		},
		password: password,
	}
	s.order = append(s.order, id)
	return id
}

func (s *Server) issueTokenLocked(userID string) string {
	s.nextID++
	token := fmt.Sprintf("token-%s-%d", userID, s.nextID)
	s.tokens[token] = userID
	return token
}

func (s *Server) linkLocked(a, b string) {
	ua, okA := s.users[a]
	ub, okB := s.users[b]
	if !okA || !okB {
		return
	}
	if !contains(ua.Friends, b) {
		ua.Friends = append(ua.Friends, b)
	}
	if !contains(ub.Friends, a) {
		ub.Friends = append(ub.Friends, a)
	}
	ua.PendingFriendRequests = remove(ua.PendingFriendRequests, b)
	ub.PendingFriendRequests = remove(ub.PendingFriendRequests, a)
}

func (s *Server) directMessageLocked(senderID, receiverID, content string) client.Message {
	s.nextID++
	return client.Message{
		ID:         fmt.Sprintf("m%d", s.nextID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  client.Timestamp{Raw: s.Now().Format(directTimeLayout)},
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in client.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email is already in use"})
			return
		}
	}
	s.addUserLocked(in.Name, in.LastName, in.Email, in.Password)
	writeJSON(w, http.StatusOK, map[string]string{"message": client.MsgUserRegistered})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in client.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		u := s.users[id]
		if strings.EqualFold(u.Email, in.Email) && u.password == in.Password {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"token":  s.issueTokenLocked(id),
				"id":     id,
				"groups": append([]string{}, u.groups...),
			})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}

	friends := make([]client.Friend, 0, len(u.Friends))
	for _, id := range u.Friends {
		if f, ok := s.users[id]; ok {
			friends = append(friends, f.Friend)
		}
	}
	writeJSON(w, http.StatusOK, friends)
}

func (s *Server) handleFriendAdd(w http.ResponseWriter, r *http.Request) {
	var in client.FriendAction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	receiver, ok := s.users[in.ReceiverID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Receiver not found"})
		return
	}
	if contains(receiver.PendingFriendRequests, in.SenderID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Friend request already sent"})
		return
	}
	receiver.PendingFriendRequests = append(receiver.PendingFriendRequests, in.SenderID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request sent!"})
}

func (s *Server) handleFriendAccept(w http.ResponseWriter, r *http.Request) {
	var in client.FriendAction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	receiver, ok := s.users[in.ReceiverID]
	if !ok || !contains(receiver.PendingFriendRequests, in.SenderID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No pending friend request from this user"})
		return
	}
	s.linkLocked(in.SenderID, in.ReceiverID)
	writeText(w, http.StatusOK, "Friend request accepted!")
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("userId1")
	b := r.URL.Query().Get("userId2")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Message, 0)
	for _, m := range s.direct {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMessageSend(w http.ResponseWriter, r *http.Request) {
	var in client.SendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[in.ReceiverID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Receiver not found"})
		return
	}
	s.direct = append(s.direct, s.directMessageLocked(in.SenderID, in.ReceiverID, in.Content))
	writeJSON(w, http.StatusOK, map[string]string{"message": client.MsgMessageSent})
}

func (s *Server) handleGroupCreate(w http.ResponseWriter, r *http.Request) {
	var in client.CreateGroupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	g := &group{
		id:        fmt.Sprintf("g%d", s.nextID),
		name:      in.Name,
		createdAt: s.Now(),
		members:   append([]string(nil), in.Members...),
	}
	s.groups[g.id] = g
	for _, id := range g.members {
		if u, ok := s.users[id]; ok {
			u.groups = append(u.groups, g.id)
		}
	}
	writeJSON(w, http.StatusOK, client.CreateGroupResponse{GroupID: g.id})
}

func (s *Server) handleGroupMembers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Group not found"})
		return
	}
	writeJSON(w, http.StatusOK, client.GroupDetails{
		GroupName:    g.name,
		CreationTime: g.createdAt.Format(groupTimeLayout),
		Members:      append([]string{}, g.members...),
	})
}

func (s *Server) handleGroupAdd(w http.ResponseWriter, r *http.Request) {
	var in client.AddMemberInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[chi.URLParam(r, "id")]
	if !ok {
		writeText(w, http.StatusNotFound, "Group not found.")
		return
	}
	if _, ok := s.users[in.MemberID]; !ok {
		writeText(w, http.StatusNotFound, "User not found.")
		return
	}
	if contains(g.members, in.MemberID) {
		writeText(w, http.StatusBadRequest, "Person is already a member of the group.")
		return
	}
	g.members = append(g.members, in.MemberID)
	s.users[in.MemberID].groups = append(s.users[in.MemberID].groups, g.id)
	writeText(w, http.StatusOK, client.MsgMemberAdded)
}

func (s *Server) handleGroupHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Group not found"})
		return
	}
	out := make([]map[string]string, 0, len(g.messages))
	for _, m := range g.messages {
		out = append(out, groupWire(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGroupSend(w http.ResponseWriter, r *http.Request) {
	var in client.SendGroupMessageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Group not found"})
		return
	}
	if !contains(g.members, in.SenderID) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "You are not a member of this group"})
		return
	}
	m := client.Message{
		SenderID:  in.SenderID,
		GroupID:   g.id,
		Content:   in.Content,
		Timestamp: client.Timestamp{Raw: s.Now().Format(groupTimeLayout)},
	}
	g.messages = append(g.messages, m)

	reply := groupWire(m)
	reply["message"] = client.MsgMessageSent
	writeJSON(w, http.StatusOK, reply)
}

// groupWire renders a group message the way the backend does, with the
// locale-formatted timestamp string kept verbatim
func groupWire(m client.Message) map[string]string {
	return map[string]string{
		"senderId":  m.SenderID,
		"groupId":   m.GroupID,
		"content":   m.Content,
		"timestamp": m.Timestamp.Raw,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
