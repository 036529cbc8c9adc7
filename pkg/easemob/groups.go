package easemob

import (
	"context"
	"strings"
)

// GroupDetails fetches one group.
func (c *Client) GroupDetails(ctx context.Context, groupID string) (*GroupResponse, error) {
	resp, err := c.Dispatch(ctx, VerbGet, "chatgroups/"+groupID, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(resp, &GroupResponse{})
}

// GroupsDetails fetches several groups in one call. Ids are comma-joined
// into the path.
func (c *Client) GroupsDetails(ctx context.Context, groupIDs []string) (*GroupResponse, error) {
	resp, err := c.Dispatch(ctx, VerbGet, "chatgroups/"+strings.Join(groupIDs, ","), nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(resp, &GroupResponse{})
}

// UpdateGroup changes a group's name, description or member cap.
func (c *Client) UpdateGroup(ctx context.Context, groupID string, update GroupUpdate) (bool, error) {
	return c.call(ctx, VerbPut, "chatgroups/"+groupID, update)
}

// AddMember adds one user to a group.
func (c *Client) AddMember(ctx context.Context, groupID, username string) (bool, error) {
	return c.call(ctx, VerbPost, "chatgroups/"+groupID+"/users/"+username, nil)
}

// AddMembers adds several users to a group.
func (c *Client) AddMembers(ctx context.Context, groupID string, users []string) (bool, error) {
	return c.call(ctx, VerbPost, "chatgroups/"+groupID+"/users", usernames{Usernames: nonNil(users)})
}
