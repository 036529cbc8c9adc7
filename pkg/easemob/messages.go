package easemob

import (
	"context"
	"fmt"

	"github.com/google/go-querystring/query"
)

// SendMessage sends a text message. EaseMob caps the number of targets per
// call and rate limits sends per app; neither is enforced here.
func (c *Client) SendMessage(ctx context.Context, msg TextMessage) (*MessageResponse, error) {
	body := messageBody{
		TargetType: msg.TargetType,
		Target:     nonNil(msg.To),
		Msg:        messageText{Type: "txt", Msg: msg.Content},
		From:       msg.From,
		Ext:        msg.Ext,
	}
	if body.TargetType == "" {
		body.TargetType = TargetUsers
	}
	if body.From == "" {
		body.From = DefaultSender
	}
	if body.Ext == nil {
		body.Ext = map[string]any{}
	}

	resp, err := c.Dispatch(ctx, VerbPost, "messages", &RequestOptions{Body: body})
	if err != nil {
		return nil, err
	}
	return decodeJSON(resp, &MessageResponse{})
}

// ChatRecord fetches a page of chat history.
func (c *Client) ChatRecord(ctx context.Context, q ChatRecordQuery) (*ChatRecordResponse, error) {
	if q.QL == "" {
		q.QL = DefaultChatRecordQL
	}
	if q.Limit == 0 {
		q.Limit = DefaultChatRecordLimit
	}

	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat record query: %w", err)
	}

	resp, err := c.Dispatch(ctx, VerbGet, "chatmessages", &RequestOptions{Query: values})
	if err != nil {
		return nil, err
	}
	return decodeJSON(resp, &ChatRecordResponse{})
}
