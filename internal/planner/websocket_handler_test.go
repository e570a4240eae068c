package planner

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/internal/websocket"
)

func TestDecodePlan(t *testing.T) {
	plan, err := decodePlan(map[string]any{
		"aircraft":          "C150N",
		"fuel_on_board_gal": 22.5,
		"departure":         map[string]any{"ident": "CYUL", "oat_c": 18.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "C150N", plan.AircraftCode)
	assert.Equal(t, 22.5, plan.FuelOnBoardGal)
	require.NotNil(t, plan.Departure.OATC)
	assert.Equal(t, 18.0, *plan.Departure.OATC)

	_, err = decodePlan(nil)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = decodePlan(map[string]any{"fuel_on_board_gal": "lots"})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func dialTestHub(t *testing.T) (*WebSocketHandler, *gws.Conn) {
	t.Helper()

	hub := websocket.NewServer(testLogger())
	go hub.Run()
	t.Cleanup(hub.Stop)

	handler := NewWebSocketHandler(newTestService(t), hub, testLogger())
	hub.SetMessageHandler(handler)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	t.Cleanup(srv.Close)

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	return handler, conn
}

func readMessage(t *testing.T, conn *gws.Conn) websocket.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg websocket.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketHandler_PlanRequest(t *testing.T) {
	_, conn := dialTestHub(t)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": websocket.MessageTypePlanRequest,
		"data": map[string]any{
			"request_id": "abc",
			"plan":       basePlan(),
		},
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, websocket.MessageTypePlanResult, msg.Type)
	assert.Equal(t, "abc", msg.Data["request_id"])

	result, ok := msg.Data["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "C150N", result["aircraft"])
}

func TestWebSocketHandler_InvalidPlan(t *testing.T) {
	_, conn := dialTestHub(t)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": websocket.MessageTypePlanRequest,
		"data": map[string]any{"request_id": 1},
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, websocket.MessageTypePlanError, msg.Type)
	assert.Equal(t, 1.0, msg.Data["request_id"])
	assert.Contains(t, msg.Data["error"], "missing plan")
}

func TestWebSocketHandler_BroadcastsCatalogUpdates(t *testing.T) {
	handler, conn := dialTestHub(t)

	handler.ModelUpserted(aircraft.Summary{Code: "PA28", Name: "Piper Cherokee"})

	msg := readMessage(t, conn)
	assert.Equal(t, websocket.MessageTypeCatalogUpdated, msg.Type)
	model, ok := msg.Data["model"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PA28", model["code"])
}
