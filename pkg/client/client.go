// Package client is the state-holding API client for the chat service: it
// caches the chat list, tracks the selected chat, and re-synchronizes by
// invalidating and refetching after every confirmed mutation instead of
// patching local state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Message mirrors the wire shape: timestamp is unix milliseconds.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type Chat struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const chatListKey = "chats"

type Client struct {
	baseURL string
	token   string
	http    *http.Client

	cache *cache.Cache

	mu       sync.RWMutex
	selected *Chat
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 90 * time.Second, // converse waits on the model
		},
		cache: cache.New(30*time.Second, time.Minute),
	}
}

// FetchChats returns the cached list when fresh, otherwise pulls the
// authoritative list from the server (already sorted by recency).
func (c *Client) FetchChats(ctx context.Context) ([]Chat, error) {
	if x, found := c.cache.Get(chatListKey); found {
		return x.([]Chat), nil
	}

	var chats []Chat
	if err := c.call(ctx, http.MethodGet, "/chat/list", nil, &chats); err != nil {
		return nil, err
	}
	c.cache.Set(chatListKey, chats, cache.DefaultExpiration)

	c.mu.Lock()
	c.reconcileSelection(chats)
	c.mu.Unlock()

	return chats, nil
}

// CreateChat creates a session server-side, then refetches the list.
func (c *Client) CreateChat(ctx context.Context) (*Chat, error) {
	var created Chat
	if err := c.call(ctx, http.MethodPost, "/chat/create", struct{}{}, &created); err != nil {
		return nil, err
	}
	if _, err := c.refetch(ctx); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) RenameChat(ctx context.Context, chatId uuid.UUID, name string) error {
	body := map[string]interface{}{"chatId": chatId, "name": name}
	if err := c.call(ctx, http.MethodPost, "/chat/rename", body, nil); err != nil {
		// Failure leaves cached state untouched.
		return err
	}
	_, err := c.refetch(ctx)
	return err
}

func (c *Client) DeleteChat(ctx context.Context, chatId uuid.UUID) error {
	body := map[string]interface{}{"chatId": chatId}
	if err := c.call(ctx, http.MethodPost, "/chat/delete", body, nil); err != nil {
		return err
	}
	_, err := c.refetch(ctx)
	return err
}

// SendPrompt runs one converse round-trip and returns the assistant reply.
func (c *Client) SendPrompt(ctx context.Context, chatId uuid.UUID, prompt string) (*Message, error) {
	body := map[string]interface{}{"chatId": chatId, "prompt": prompt}
	var reply Message
	if err := c.call(ctx, http.MethodPost, "/chat/converse", body, &reply); err != nil {
		return nil, err
	}
	if _, err := c.refetch(ctx); err != nil {
		return nil, err
	}
	return &reply, nil
}

// SelectChat is a pure local state change; no network call.
func (c *Client) SelectChat(chatId uuid.UUID) bool {
	x, found := c.cache.Get(chatListKey)
	if !found {
		return false
	}
	for _, chat := range x.([]Chat) {
		if chat.Id == chatId {
			c.mu.Lock()
			selected := chat
			c.selected = &selected
			c.mu.Unlock()
			return true
		}
	}
	return false
}

func (c *Client) SelectedChat() *Chat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Invalidate drops the cached list so the next FetchChats hits the server.
// Useful when a websocket notification reports an out-of-band change.
func (c *Client) Invalidate() {
	c.cache.Delete(chatListKey)
}

func (c *Client) refetch(ctx context.Context) ([]Chat, error) {
	c.Invalidate()
	return c.FetchChats(ctx)
}

// reconcileSelection re-points the selected chat at its refetched copy, or
// falls back to the most recent chat. Caller holds c.mu.
func (c *Client) reconcileSelection(chats []Chat) {
	if c.selected != nil {
		for _, chat := range chats {
			if chat.Id == c.selected.Id {
				fresh := chat
				c.selected = &fresh
				return
			}
		}
	}
	if len(chats) > 0 {
		first := chats[0]
		c.selected = &first
	} else {
		c.selected = nil
	}
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s", msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unmarshal data: %w", err)
		}
	}
	return nil
}
