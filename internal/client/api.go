package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Register calls POST /register
func (c *Client) Register(ctx context.Context, input *RegisterInput) (Ack, error) {
	resp, err := c.do(ctx, http.MethodPost, "/register", input, false)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	return c.ack(resp, MsgUserRegistered)
}

// Login calls POST /login. A response without a token is returned as an APIError.
func (c *Client) Login(ctx context.Context, input *LoginInput) (*LoginResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/login", input, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var login LoginResponse
	if err := json.Unmarshal(data, &login); err != nil {
		login = LoginResponse{Message: strings.TrimSpace(string(data))}
	}

	if !isSuccess(resp.StatusCode) || login.Token == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: login.Message}
	}
	return &login, nil
}

// Friends calls GET /friends?userId=
func (c *Client) Friends(ctx context.Context, userID string) ([]Friend, error) {
	q := url.Values{"userId": {userID}}

	var friends []Friend
	if err := c.getJSON(ctx, "/friends?"+q.Encode(), &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// AddFriend calls POST /friends/add
func (c *Client) AddFriend(ctx context.Context, input *FriendAction) (Ack, error) {
	resp, err := c.do(ctx, http.MethodPost, "/friends/add", input, true)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	return c.ack(resp, "")
}

// AcceptFriend calls POST /friends/accept. The body may be JSON or plain text.
func (c *Client) AcceptFriend(ctx context.Context, input *FriendAction) (Ack, error) {
	resp, err := c.do(ctx, http.MethodPost, "/friends/accept", input, true)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	return c.ack(resp, "")
}

// Messages calls GET /messages?userId1=&userId2=
func (c *Client) Messages(ctx context.Context, userID1, userID2 string) ([]Message, error) {
	q := url.Values{"userId1": {userID1}, "userId2": {userID2}}

	var messages []Message
	if err := c.getJSON(ctx, "/messages?"+q.Encode(), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage calls POST /messages/send
func (c *Client) SendMessage(ctx context.Context, input *SendMessageInput) (Ack, error) {
	resp, err := c.do(ctx, http.MethodPost, "/messages/send", input, true)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	return c.ack(resp, MsgMessageSent)
}

// CreateGroup calls POST /groups/create
func (c *Client) CreateGroup(ctx context.Context, input *CreateGroupInput) (*CreateGroupResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/groups/create", input, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, c.handleErrorResponse(resp)
	}

	var created CreateGroupResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	if created.GroupID == "" {
		return nil, fmt.Errorf("invalid response from backend: missing groupId")
	}
	return &created, nil
}

// GroupDetails calls GET /groups/:id/members
func (c *Client) GroupDetails(ctx context.Context, groupID string) (*GroupDetails, error) {
	var details GroupDetails
	if err := c.getJSON(ctx, groupPath(groupID, "members"), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// AddGroupMember calls POST /groups/:id/add-member
func (c *Client) AddGroupMember(ctx context.Context, groupID string, input *AddMemberInput) (Ack, error) {
	resp, err := c.do(ctx, http.MethodPost, groupPath(groupID, "add-member"), input, true)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	return c.ack(resp, MsgMemberAdded)
}

// GroupMessages calls GET /groups/:id/messages
func (c *Client) GroupMessages(ctx context.Context, groupID string) ([]Message, error) {
	var messages []Message
	if err := c.getJSON(ctx, groupPath(groupID, "messages"), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendGroupMessage calls POST /groups/:id/send and returns the server echo
func (c *Client) SendGroupMessage(ctx context.Context, groupID string, input *SendGroupMessageInput) (*GroupSendResult, error) {
	resp, err := c.do(ctx, http.MethodPost, groupPath(groupID, "send"), input, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result GroupSendResult
	if err := json.Unmarshal(data, &result); err != nil {
		result = GroupSendResult{Ack: Ack{Message: strings.TrimSpace(string(data))}}
	}

	if result.Message == MsgUnauthorized || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: result.Message}
	}

	result.OK = isSuccess(resp.StatusCode) && result.Message == MsgMessageSent
	return &result, nil
}

func groupPath(groupID, action string) string {
	return "/groups/" + url.PathEscape(groupID) + "/" + action
}
