package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	t         *testing.T
	chats     []Chat
	listCalls int64
}

func (f *fakeServer) respond(w http.ResponseWriter, data interface{}) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Success",
		"data":    data,
	})
}

func (f *fakeServer) fail(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

func (f *fakeServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "Bearer test-token", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/chat/list":
			atomic.AddInt64(&f.listCalls, 1)
			f.respond(w, f.chats)
		case "/chat/create":
			chat := Chat{
				Id:        uuid.New(),
				UserId:    uuid.New(),
				Name:      "New Chat",
				Messages:  []Message{},
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			f.chats = append([]Chat{chat}, f.chats...)
			f.respond(w, chat)
		case "/chat/rename":
			var req struct {
				ChatId uuid.UUID `json:"chatId"`
				Name   string    `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			for i := range f.chats {
				if f.chats[i].Id == req.ChatId {
					f.chats[i].Name = req.Name
					f.respond(w, f.chats[i])
					return
				}
			}
			f.fail(w, http.StatusNotFound, "Chat not found")
		case "/chat/delete":
			var req struct {
				ChatId uuid.UUID `json:"chatId"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			for i := range f.chats {
				if f.chats[i].Id == req.ChatId {
					f.chats = append(f.chats[:i], f.chats[i+1:]...)
					f.respond(w, nil)
					return
				}
			}
			f.fail(w, http.StatusNotFound, "Chat not found")
		default:
			f.fail(w, http.StatusNotFound, "unknown route")
		}
	}
}

func newTestClient(t *testing.T) (*fakeServer, *Client) {
	t.Helper()
	fs := &fakeServer{t: t}
	srv := httptest.NewServer(fs.handler())
	t.Cleanup(srv.Close)
	return fs, New(srv.URL, "test-token")
}

func TestFetchChatsUsesCache(t *testing.T) {
	fs, c := newTestClient(t)
	fs.chats = []Chat{{Id: uuid.New(), Name: "Existing"}}

	first, err := c.FetchChats(context.Background())
	require.NoError(t, err)
	second, err := c.FetchChats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&fs.listCalls))
}

func TestInvalidateForcesRefetch(t *testing.T) {
	fs, c := newTestClient(t)

	_, err := c.FetchChats(context.Background())
	require.NoError(t, err)

	c.Invalidate()
	_, err = c.FetchChats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt64(&fs.listCalls))
}

func TestCreateChatRefetchesList(t *testing.T) {
	fs, c := newTestClient(t)

	created, err := c.CreateChat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "New Chat", created.Name)

	chats, err := c.FetchChats(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, created.Id, chats[0].Id)

	// Create triggered one refetch; FetchChats then hit the cache.
	assert.EqualValues(t, 1, atomic.LoadInt64(&fs.listCalls))
}

func TestRenameFailureKeepsCachedState(t *testing.T) {
	fs, c := newTestClient(t)
	created, err := c.CreateChat(context.Background())
	require.NoError(t, err)

	listCallsBefore := atomic.LoadInt64(&fs.listCalls)

	err = c.RenameChat(context.Background(), uuid.New(), "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Chat not found")

	// No refetch happened; the cached list still holds the old name.
	assert.Equal(t, listCallsBefore, atomic.LoadInt64(&fs.listCalls))
	chats, err := c.FetchChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created.Name, chats[0].Name)
}

func TestRenameSuccessRefetches(t *testing.T) {
	_, c := newTestClient(t)
	created, err := c.CreateChat(context.Background())
	require.NoError(t, err)

	err = c.RenameChat(context.Background(), created.Id, "Renamed")
	require.NoError(t, err)

	chats, err := c.FetchChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", chats[0].Name)
}

func TestDeleteChatClearsSelection(t *testing.T) {
	_, c := newTestClient(t)
	created, err := c.CreateChat(context.Background())
	require.NoError(t, err)

	require.True(t, c.SelectChat(created.Id))
	require.NotNil(t, c.SelectedChat())

	err = c.DeleteChat(context.Background(), created.Id)
	require.NoError(t, err)

	assert.Nil(t, c.SelectedChat())
}

func TestSelectChatUnknownId(t *testing.T) {
	_, c := newTestClient(t)
	_, err := c.FetchChats(context.Background())
	require.NoError(t, err)

	assert.False(t, c.SelectChat(uuid.New()))
}
