package registry

import "errors"

var (
	// ErrCategoryUnknown is returned when a client accesses a category
	// it was never granted. From the client's perspective the category
	// does not exist.
	ErrCategoryUnknown = errors.New("registry category unknown to client")

	// ErrPermission is returned when a client's permission for a
	// category does not cover the attempted operation.
	ErrPermission = errors.New("insufficient registry permissions")
)

// Permission is what a client may do with one category. Write includes
// the ability to read.
type Permission int

const (
	// PermRead grants reading all data in a category.
	PermRead Permission = iota
	// PermWrite grants reading and writing all data in a category.
	PermWrite
)

// AccessMapping maps category names to the client's permission for
// each.
type AccessMapping map[string]Permission

// Client is the only access path to the registry for external programs
// (scripts, control connections). A category absent from the mapping is
// invisible to the client.
type Client struct {
	reg    *Registry
	access AccessMapping
}

// NewClient creates a client over reg with the given permissions.
func NewClient(reg *Registry, access AccessMapping) *Client {
	return &Client{reg: reg, access: access}
}

// Categories returns the categories this client can access.
func (c *Client) Categories() AccessMapping {
	out := make(AccessMapping, len(c.access))
	for k, v := range c.access {
		out[k] = v
	}
	return out
}

// Get reads the value stored under category/key after checking the
// client may read the category.
func (c *Client) Get(category, key string) (interface{}, error) {
	if _, ok := c.access[category]; !ok {
		return nil, ErrCategoryUnknown
	}
	_, data, err := c.reg.Get(category + "." + key)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set writes a value under category/key after checking the client may
// write the category.
func (c *Client) Set(category, key string, data interface{}) error {
	perm, ok := c.access[category]
	if !ok {
		return ErrCategoryUnknown
	}
	if perm != PermWrite {
		return ErrPermission
	}
	c.reg.Set(category+"."+key, FlagRead|FlagWrite, data)
	return nil
}

// Contains reports whether category/key exists, respecting visibility.
func (c *Client) Contains(category, key string) bool {
	if _, ok := c.access[category]; !ok {
		return false
	}
	return c.reg.Contains(category + "." + key)
}
