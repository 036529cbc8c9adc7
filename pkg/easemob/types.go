package easemob

// Envelope holds the fields EaseMob wraps around every JSON response.
// Error responses populate Error and ErrorDescription instead of data.
type Envelope struct {
	Action           string `json:"action,omitempty"`
	Application      string `json:"application,omitempty"`
	ApplicationName  string `json:"applicationName,omitempty"`
	Organization     string `json:"organization,omitempty"`
	Path             string `json:"path,omitempty"`
	URI              string `json:"uri,omitempty"`
	Timestamp        int64  `json:"timestamp,omitempty"`
	Duration         int64  `json:"duration,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	Exception        string `json:"exception,omitempty"`

	// StatusCode is the HTTP status of the response this envelope came from.
	StatusCode int `json:"-"`
}

func (e *Envelope) setStatus(code int) { e.StatusCode = code }

// Err returns an *APIError when the response reported a failure, nil
// otherwise.
func (e *Envelope) Err() error {
	if e.Error == "" && e.StatusCode < 400 {
		return nil
	}
	return &APIError{
		StatusCode:  e.StatusCode,
		Code:        e.Error,
		Description: e.ErrorDescription,
	}
}

// ============================================================================
// Users
// ============================================================================

// User is an IM user entity.
type User struct {
	UUID      string `json:"uuid"`
	Type      string `json:"type"`
	Created   int64  `json:"created"`
	Modified  int64  `json:"modified"`
	Username  string `json:"username"`
	Activated bool   `json:"activated"`
	Nickname  string `json:"nickname,omitempty"`
}

// UserResponse is returned by UserDetails.
type UserResponse struct {
	Envelope
	Entities []User `json:"entities"`
	Count    int    `json:"count"`
}

// User returns the first entity, if any.
func (r *UserResponse) User() (User, bool) {
	if len(r.Entities) == 0 {
		return User{}, false
	}
	return r.Entities[0], true
}

type usernames struct {
	Usernames []string `json:"usernames"`
}

// ============================================================================
// Groups
// ============================================================================

// GroupAffiliation is one entry of a group's membership list. Exactly one
// of Owner and Member is set.
type GroupAffiliation struct {
	Owner  string `json:"owner,omitempty"`
	Member string `json:"member,omitempty"`
}

// Group is a chat group.
type Group struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Public            bool               `json:"public"`
	MembersOnly       bool               `json:"membersonly"`
	AllowInvites      bool               `json:"allowinvites"`
	MaxUsers          int                `json:"maxusers"`
	Created           int64              `json:"created"`
	AffiliationsCount int                `json:"affiliations_count"`
	Affiliations      []GroupAffiliation `json:"affiliations"`
}

// Owner returns the owner's username, or "" when not listed.
func (g Group) Owner() string {
	for _, a := range g.Affiliations {
		if a.Owner != "" {
			return a.Owner
		}
	}
	return ""
}

// GroupResponse is returned by GroupDetails and GroupsDetails.
type GroupResponse struct {
	Envelope
	Data  []Group `json:"data"`
	Count int     `json:"count"`
}

// GroupUpdate carries the mutable group fields. Zero fields are omitted.
type GroupUpdate struct {
	GroupName   string `json:"groupname,omitempty"`
	Description string `json:"description,omitempty"`
	MaxUsers    int    `json:"maxusers,omitempty"`
}

// ============================================================================
// Messages
// ============================================================================

// TargetType selects whether a message addresses users or groups.
type TargetType string

const (
	TargetUsers      TargetType = "users"
	TargetChatGroups TargetType = "chatgroups"
)

// DefaultSender is used when TextMessage.From is empty.
const DefaultSender = "admin"

// TextMessage is a plain text message.
type TextMessage struct {
	// From defaults to DefaultSender.
	From string
	// To lists usernames or group ids, depending on TargetType.
	To      []string
	Content string
	// TargetType defaults to TargetUsers.
	TargetType TargetType
	// Ext is free-form metadata delivered with the message. nil encodes as {}.
	Ext map[string]any
}

type messageText struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

type messageBody struct {
	TargetType TargetType     `json:"target_type"`
	Target     []string       `json:"target"`
	Msg        messageText    `json:"msg"`
	From       string         `json:"from"`
	Ext        map[string]any `json:"ext"`
}

// MessageResponse maps each target to its delivery result ("success" or
// an error text).
type MessageResponse struct {
	Envelope
	Data map[string]string `json:"data"`
}

// ============================================================================
// Chat history
// ============================================================================

const (
	DefaultChatRecordQL    = "order by timestamp desc"
	DefaultChatRecordLimit = 20
)

// ChatRecordQuery pages through chat history. Empty fields are not sent;
// QL and Limit fall back to DefaultChatRecordQL and DefaultChatRecordLimit.
type ChatRecordQuery struct {
	QL     string `url:"ql,omitempty"`
	Cursor string `url:"cursor,omitempty"`
	Limit  int    `url:"limit,omitempty"`
}

// ChatPayload is the message body inside a history record.
type ChatPayload struct {
	Bodies []map[string]any `json:"bodies"`
	Ext    map[string]any   `json:"ext,omitempty"`
}

// ChatMessage is one history record.
type ChatMessage struct {
	UUID      string      `json:"uuid"`
	Type      string      `json:"type"`
	Created   int64       `json:"created"`
	Modified  int64       `json:"modified"`
	Timestamp int64       `json:"timestamp"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	MsgID     string      `json:"msg_id"`
	ChatType  string      `json:"chat_type"`
	Payload   ChatPayload `json:"payload"`
}

// ChatRecordResponse is returned by ChatRecord. Cursor is empty on the last
// page.
type ChatRecordResponse struct {
	Envelope
	Entities []ChatMessage `json:"entities"`
	Cursor   string        `json:"cursor,omitempty"`
	Count    int           `json:"count"`
}
