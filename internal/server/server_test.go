package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaimana/makeke/internal/chat"
	"github.com/kaimana/makeke/internal/intent"
	"github.com/kaimana/makeke/internal/listings"
	"github.com/kaimana/makeke/internal/messaging"
	"github.com/kaimana/makeke/internal/models"
	"github.com/kaimana/makeke/internal/server"
)

// testLogger creates a logger that writes to stderr for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// echoGateway replies with a fixed reply for every turn.
type echoGateway struct {
	reply string
}

func (g *echoGateway) SendTurn(ctx context.Context, text string, image *models.PendingImage) (string, error) {
	return g.reply, nil
}

func (g *echoGateway) Reset() {}

// serverFrame mirrors the wire shape of server messages.
type serverFrame struct {
	Type     string              `json:"type"`
	Message  *models.ChatMessage `json:"message,omitempty"`
	Dispatch *chat.Dispatch      `json:"dispatch,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func newTestServer(t *testing.T, reply string) (*httptest.Server, *listings.Memory) {
	t.Helper()
	logger := testLogger()
	store := listings.NewMemorySeeded(models.SeedListings())

	factory := func() *chat.Orchestrator {
		convo := chat.New(&echoGateway{reply: reply}, store, messaging.NewOutbox(logger), models.DemoUser, logger)
		convo.SetActiveSeller("u2")
		return convo
	}

	ts := httptest.NewServer(server.New(store, factory, logger).Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func TestListingsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, "hi")

	resp, err := http.Get(ts.URL + "/api/listings?query=surfboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var got []models.Listing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Vintage Koa Wood Surfboard", got[0].Title)
}

func TestListingsEndpoint_PriceFilters(t *testing.T) {
	ts, _ := newTestServer(t, "hi")

	resp, err := http.Get(ts.URL + "/api/listings?min_price=100&max_price=2000")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.Listing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotEmpty(t, got)
	for _, l := range got {
		assert.GreaterOrEqual(t, l.Price, 100.0)
		assert.LessOrEqual(t, l.Price, 2000.0)
	}
}

func dialChat(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) serverFrame {
	t.Helper()
	var frame serverFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestChatWebSocket_TurnRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t, "Aloha! What can I find for you?")
	conn := dialChat(t, ts)

	// The transcript opener is the welcome message.
	welcome := readFrame(t, conn)
	require.Equal(t, "chat_message", welcome.Type)
	require.NotNil(t, welcome.Message)
	assert.Equal(t, chat.WelcomeText, welcome.Message.Text)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "message", "text": "hi"}))

	user := readFrame(t, conn)
	require.Equal(t, "chat_message", user.Type)
	assert.Equal(t, models.RoleUser, user.Message.Role)
	assert.Equal(t, "hi", user.Message.Text)

	assistant := readFrame(t, conn)
	require.Equal(t, "chat_message", assistant.Type)
	assert.Equal(t, models.RoleAssistant, assistant.Message.Role)
	assert.Equal(t, "Aloha! What can I find for you?", assistant.Message.Text)
}

func TestChatWebSocket_ConfirmListing(t *testing.T) {
	reply := "Here's your draft:\n```json\n" +
		`{"title": "Red Bike", "price": "50", "location": "Hilo", "condition": "Good"}` +
		"\n```"
	ts, store := newTestServer(t, reply)
	conn := dialChat(t, ts)

	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "message", "text": "sell my red bike"}))
	readFrame(t, conn) // user echo
	assistant := readFrame(t, conn)
	require.NotNil(t, assistant.Message.Intent)
	require.Equal(t, intent.KindListingDraft, assistant.Message.Intent.Kind)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "confirm", "id": assistant.Message.ID}))
	dispatch := readFrame(t, conn)
	require.Equal(t, "dispatch", dispatch.Type)
	require.NotNil(t, dispatch.Dispatch)
	assert.Equal(t, intent.KindListingDraft, dispatch.Dispatch.Kind)
	require.NotNil(t, dispatch.Dispatch.Listing)
	assert.Equal(t, 50.0, dispatch.Dispatch.Listing.Price)

	found, err := store.List(context.Background(), models.SearchFilters{Query: "red bike"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestChatWebSocket_ErrorFrames(t *testing.T) {
	ts, _ := newTestServer(t, "hi")
	conn := dialChat(t, ts)
	readFrame(t, conn) // welcome

	// Empty turn is rejected without growing the transcript.
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "message", "text": "   "}))
	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame.Type)
	assert.NotEmpty(t, frame.Error)

	// Confirming an unknown message id is rejected.
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "confirm", "id": "nope"}))
	frame = readFrame(t, conn)
	assert.Equal(t, "error", frame.Type)

	// Unknown frame types are rejected, connection stays usable.
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "bogus"}))
	frame = readFrame(t, conn)
	assert.Equal(t, "error", frame.Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "message", "text": "still works"}))
	frame = readFrame(t, conn)
	assert.Equal(t, "chat_message", frame.Type)
}

func TestChatWebSocket_Reset(t *testing.T) {
	ts, _ := newTestServer(t, "hello")
	conn := dialChat(t, ts)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "message", "text": "hi"}))
	readFrame(t, conn)
	readFrame(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "reset"}))
	frame := readFrame(t, conn)
	require.Equal(t, "chat_message", frame.Type)
	assert.Equal(t, chat.WelcomeText, frame.Message.Text)
}
