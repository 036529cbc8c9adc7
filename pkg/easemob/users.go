package easemob

import "context"

// UserDetails fetches a user. The body is decoded whatever the status; a
// missing user yields a response whose Err() is non-nil.
func (c *Client) UserDetails(ctx context.Context, username string) (*UserResponse, error) {
	resp, err := c.Dispatch(ctx, VerbGet, "users/"+username, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(resp, &UserResponse{})
}

// Deactivate disables a user's login.
func (c *Client) Deactivate(ctx context.Context, username string) (bool, error) {
	return c.call(ctx, VerbPost, "users/"+username+"/deactivate", nil)
}

// Activate re-enables a deactivated user.
func (c *Client) Activate(ctx context.Context, username string) (bool, error) {
	return c.call(ctx, VerbPost, "users/"+username+"/activate", nil)
}

// AddToBlocks adds usernames to owner's blocklist.
func (c *Client) AddToBlocks(ctx context.Context, owner string, users []string) (bool, error) {
	return c.call(ctx, VerbPost, "users/"+owner+"/blocks/users", usernames{Usernames: nonNil(users)})
}

// RemoveFromBlocks removes username from owner's blocklist.
func (c *Client) RemoveFromBlocks(ctx context.Context, owner, username string) (bool, error) {
	return c.call(ctx, VerbDelete, "users/"+owner+"/blocks/users/"+username, nil)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
