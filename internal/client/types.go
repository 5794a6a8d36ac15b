package client

import (
	"encoding/json"
	"strings"
)

// Friend is a user as returned by GET /friends
type Friend struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	LastName              string   `json:"lastName"`
	Email                 string   `json:"email,omitempty"`
	Friends               []string `json:"friends,omitempty"`
	PendingFriendRequests []string `json:"pendingFriendRequests,omitempty"`
}

// FullName returns "Name LastName"
func (f Friend) FullName() string {
	return strings.TrimSpace(f.Name + " " + f.LastName)
}

// Message is a direct or group chat message
type Message struct {
	ID         string    `json:"id,omitempty"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	Content    string    `json:"content"`
	Timestamp  Timestamp `json:"timestamp"`

	// Pending marks an optimistic local entry not yet confirmed by the server
	Pending bool `json:"-"`
}

// IsFrom reports whether userID sent the message
func (m Message) IsFrom(userID string) bool {
	return userID != "" && m.SenderID == userID
}

// RegisterInput is the body of POST /register
type RegisterInput struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the body of POST /login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /login
type LoginResponse struct {
	Token   string    `json:"token"`
	ID      string    `json:"id"`
	Groups  GroupList `json:"groups,omitempty"`
	Message string    `json:"message,omitempty"`
}

// GroupList decodes either a JSON array of ids or a comma-separated string
type GroupList []string

func (g *GroupList) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		*g = ids
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*g = nil
	for _, part := range strings.Split(joined, ",") {
		if id := strings.TrimSpace(part); id != "" {
			*g = append(*g, id)
		}
	}
	return nil
}

// FriendAction is the body of POST /friends/add and /friends/accept
type FriendAction struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

// SendMessageInput is the body of POST /messages/send
type SendMessageInput struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// CreateGroupInput is the body of POST /groups/create
type CreateGroupInput struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// CreateGroupResponse is returned by POST /groups/create
type CreateGroupResponse struct {
	GroupID string `json:"groupId"`
}

// GroupDetails is returned by GET /groups/:id/members
type GroupDetails struct {
	GroupName    string   `json:"groupName"`
	CreationTime string   `json:"creationTime"`
	Members      []string `json:"members"`
}

// AddMemberInput is the body of POST /groups/:id/add-member
type AddMemberInput struct {
	SenderID string `json:"senderId"`
	MemberID string `json:"memberId"`
}

// SendGroupMessageInput is the body of POST /groups/:id/send
type SendGroupMessageInput struct {
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

// GroupSendResult carries the ack plus the fields the server echoes back
type GroupSendResult struct {
	Ack
	Content   string    `json:"content"`
	GroupID   string    `json:"groupId"`
	Timestamp Timestamp `json:"timestamp"`
}
