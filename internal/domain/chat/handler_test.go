package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo, *testEnv) {
	conversations := newMockConversationRepo()
	messages := &mockMessageRepo{}
	notifier := &mockNotifier{}
	passthrough := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	svc := NewService(conversations, messages, notifier, passthrough, zerolog.Nop())
	env := &testEnv{svc: svc, conversations: conversations, messages: messages, notifier: notifier}
	return NewHandler(svc), echo.New(), env
}

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestHandlerCreateConversation(t *testing.T) {
	h, e, _ := newTestHandler()
	alice, bob := uuid.New(), uuid.New()

	body := `{"participant_id":"` + bob.String() + `","title":"Checkup"}`
	req := authedRequest(http.MethodPost, "/chat/conversations", body, alice)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateConversation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var got Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Error("expected id in response")
	}
}

func TestHandlerSendAndGetMessages(t *testing.T) {
	h, e, env := newTestHandler()
	alice, bob := uuid.New(), uuid.New()
	conv, err := env.svc.CreateConversation(context.Background(), alice, CreateConversationInput{ParticipantID: bob})
	if err != nil {
		t.Fatal(err)
	}

	req := authedRequest(http.MethodPost, "/chat/conversations/x/messages", `{"content":"hello"}`, alice)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(conv.ID.String())

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	req = authedRequest(http.MethodGet, "/chat/conversations/x/messages?limit=10", "", bob)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(conv.ID.String())

	if err := h.GetMessages(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var page struct {
		Data  []*Message `json:"data"`
		Total int        `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 {
		t.Errorf("got %d items, total %d, want 1/1", len(page.Data), page.Total)
	}
	if page.Data[0].Content != "hello" {
		t.Errorf("content = %q, want %q", page.Data[0].Content, "hello")
	}
}

func TestHandlerGetMessages_Outsider(t *testing.T) {
	h, e, env := newTestHandler()
	alice, bob := uuid.New(), uuid.New()
	conv, err := env.svc.CreateConversation(context.Background(), alice, CreateConversationInput{ParticipantID: bob})
	if err != nil {
		t.Fatal(err)
	}

	req := authedRequest(http.MethodGet, "/chat/conversations/x/messages", "", uuid.New())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(conv.ID.String())

	if err := h.GetMessages(c); err == nil {
		t.Error("expected error for non-participant")
	}
}

func TestHandlerUnreadCount(t *testing.T) {
	h, e, env := newTestHandler()
	alice, bob := uuid.New(), uuid.New()
	conv, err := env.svc.CreateConversation(context.Background(), alice, CreateConversationInput{ParticipantID: bob})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.SendMessage(context.Background(), conv.ID, alice, "ping", "text"); err != nil {
		t.Fatal(err)
	}

	req := authedRequest(http.MethodGet, "/chat/unread-count", "", bob)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UnreadCount(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["unread_count"] != 1 {
		t.Errorf("unread_count = %d, want 1", got["unread_count"])
	}
}

func TestHandlerDeleteConversation(t *testing.T) {
	h, e, env := newTestHandler()
	alice, bob := uuid.New(), uuid.New()
	conv, err := env.svc.CreateConversation(context.Background(), alice, CreateConversationInput{ParticipantID: bob})
	if err != nil {
		t.Fatal(err)
	}

	req := authedRequest(http.MethodDelete, "/chat/conversations/x", "", alice)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(conv.ID.String())

	if err := h.DeleteConversation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
