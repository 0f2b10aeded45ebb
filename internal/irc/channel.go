package irc

import (
	"slices"
	"strings"
	"sync"
)

// membershipPrefixes are the status characters a server may put in front of
// a nickname or target
const membershipPrefixes = "+~&@%"

// Channel is the membership set and topic of the one joined channel.
// It is mutated by the receive loop only; other goroutines read snapshots.
type Channel struct {
	mu    sync.RWMutex
	name  string
	topic string
	users map[string]struct{}
}

// NewChannel creates an empty channel. A leading '#' in name is dropped.
func NewChannel(name string) *Channel {
	return &Channel{
		name:  strings.TrimPrefix(name, "#"),
		users: make(map[string]struct{}),
	}
}

// Name returns the channel name without '#'
func (c *Channel) Name() string {
	return c.name
}

// Topic returns the topic, or "" when none is set
func (c *Channel) Topic() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topic
}

// SetTopic replaces the topic
func (c *Channel) SetTopic(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topic = topic
}

// AddUser adds nick to the membership set. Adding an existing member is a no-op.
func (c *Channel) AddUser(nick string) {
	if nick == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[nick] = struct{}{}
}

// RemoveUser removes nick and reports whether it was a member
func (c *Channel) RemoveUser(nick string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.users[nick]; !ok {
		return false
	}
	delete(c.users, nick)
	return true
}

// Users returns a sorted snapshot of the membership
func (c *Channel) Users() []string {
	c.mu.RLock()
	users := make([]string, 0, len(c.users))
	for user := range c.users {
		users = append(users, user)
	}
	c.mu.RUnlock()

	slices.Sort(users)
	return users
}

// stripMembershipPrefix removes at most one leading status character
func stripMembershipPrefix(s string) string {
	if s != "" && strings.IndexByte(membershipPrefixes, s[0]) >= 0 {
		return s[1:]
	}
	return s
}
