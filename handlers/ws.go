package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"thinkprofit-api/middleware"
)

// WSHandler pushes change events to the owning user's open websocket
// sessions, standing in for the realtime-database push channel clients
// previously subscribed to.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("Client disconnected: user %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request; the session is keyed by the verified
// user from the auth middleware, never by a client-supplied ID.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
	}
}

type wsEvent struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

// NotifyUser broadcasts a change event to every session of the given
// user. Nil receivers are no-ops so handlers can run without a hub in
// tests.
func (h *WSHandler) NotifyUser(userID, entity, action, id string) {
	if h == nil || h.M == nil {
		return
	}

	msg, err := json.Marshal(wsEvent{Entity: entity, Action: action, ID: id})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		sessionUser, exists := s.Get("user_id")
		return exists && sessionUser == userID
	})
	if err != nil {
		log.Printf("Error broadcasting to user %s: %v", userID, err)
	}
}
