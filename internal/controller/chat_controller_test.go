package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChatService records calls; the controller tests only care whether a
// request made it past authentication and validation.
type stubChatService struct {
	renameCalls int
	session     dto.ChatSessionResponse
}

func (s *stubChatService) Create(ctx context.Context, userId uuid.UUID) (*dto.ChatSessionResponse, error) {
	return &s.session, nil
}

func (s *stubChatService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	return []*dto.ChatSessionResponse{&s.session}, nil
}

func (s *stubChatService) Rename(ctx context.Context, userId uuid.UUID, request *dto.RenameChatRequest) (*dto.ChatSessionResponse, error) {
	s.renameCalls++
	s.session.Name = request.Name
	return &s.session, nil
}

func (s *stubChatService) Delete(ctx context.Context, userId uuid.UUID, request *dto.DeleteChatRequest) error {
	return nil
}

func (s *stubChatService) Converse(ctx context.Context, userId uuid.UUID, request *dto.ConverseRequest) (*dto.MessageResponse, error) {
	return &dto.MessageResponse{Role: constant.ChatMessageRoleAssistant, Content: "ok"}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *stubChatService, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "controller-test-secret")

	stub := &stubChatService{
		session: dto.ChatSessionResponse{
			Id:     uuid.New(),
			UserId: uuid.New(),
			Name:   constant.DefaultChatSessionName,
		},
	}

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(stub).RegisterRoutes(app)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": stub.session.UserId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("controller-test-secret"))
	require.NoError(t, err)

	return app, stub, signed
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func TestRenameEmptyNameRejected(t *testing.T) {
	app, stub, token := newTestApp(t)

	status, envelope := postJSON(t, app, "/chat/rename", token, map[string]interface{}{
		"chatId": uuid.New().String(),
		"name":   "",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, envelope["success"])

	// Validation fails before the service runs, so the stored name is
	// untouched.
	assert.Zero(t, stub.renameCalls)
	assert.Equal(t, constant.DefaultChatSessionName, stub.session.Name)
}

func TestRenameMissingChatIdRejected(t *testing.T) {
	app, stub, token := newTestApp(t)

	status, envelope := postJSON(t, app, "/chat/rename", token, map[string]interface{}{
		"name": "Valid Name",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, envelope["success"])
	assert.Zero(t, stub.renameCalls)
}

func TestRenameValidRequestReachesService(t *testing.T) {
	app, stub, token := newTestApp(t)

	status, envelope := postJSON(t, app, "/chat/rename", token, map[string]interface{}{
		"chatId": uuid.New().String(),
		"name":   "Project Ideas",
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, 1, stub.renameCalls)
	assert.Equal(t, "Project Ideas", stub.session.Name)
}

func TestRenameWithoutTokenRejected(t *testing.T) {
	app, stub, _ := newTestApp(t)

	status, envelope := postJSON(t, app, "/chat/rename", "", map[string]interface{}{
		"chatId": uuid.New().String(),
		"name":   "Anything",
	})

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, envelope["success"])
	assert.Zero(t, stub.renameCalls)
}
