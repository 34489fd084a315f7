package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

const (
	eventJoinConversation = "join-conversation"
	eventSendMessage      = "send-message"

	statusOK  = "OK"
	statusBAD = "BAD"
)

// Client is one authenticated socket connection. room is guarded by the
// hub's mutex and mutated only through the hub.
type Client struct {
	svc  *WSService
	conn *websocket.Conn
	send chan []byte
	user *models.User
	id   string
	room string
}

// eventFrame is a client request. A frame without an ackId has no response
// path: the operation is skipped entirely rather than performed unacked.
type eventFrame struct {
	Event string          `json:"event"`
	AckID int64           `json:"ackId"`
	Data  json.RawMessage `json:"data"`
}

type ackError struct {
	Msg string `json:"msg"`
}

type okAck struct {
	AckID  int64  `json:"ackId"`
	Status string `json:"status"`
}

type joinAck struct {
	AckID    int64            `json:"ackId"`
	Status   string           `json:"status"`
	Messages []models.Message `json:"messages"`
}

type badAck struct {
	AckID  int64     `json:"ackId"`
	Status string    `json:"status"`
	Err    *ackError `json:"err"`
}

func (c *Client) readPump() {
	defer func() {
		c.svc.hub.Unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes one inbound frame. Handler failures of any kind, panics
// included, become a BAD ack; nothing can escape and take down the pump.
func (c *Client) dispatch(raw []byte) {
	var frame eventFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("dropping unparseable frame: user=%s conn=%s err=%v", c.user.ID, c.id, err)
		return
	}
	if frame.AckID == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("event handler panic: user=%s event=%s: %v", c.user.ID, frame.Event, r)
			c.ackBad(frame.AckID, "internal error")
		}
	}()

	switch frame.Event {
	case eventJoinConversation:
		c.handleJoin(frame)
	case eventSendMessage:
		c.handleSend(frame)
	default:
		c.ackBad(frame.AckID, "unknown event")
	}
}

// handleJoin validates the conversation exists and the user belongs to it,
// moves the connection into the conversation room and acks with the full
// history oldest first. Existence is checked before membership so the two
// failures keep their distinct messages.
func (c *Client) handleJoin(frame eventFrame) {
	var req struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(frame.Data, &req); err != nil || req.ConversationID == "" {
		c.ackBad(frame.AckID, "invalid join payload")
		return
	}

	conv, err := c.svc.conversations.GetByID(req.ConversationID)
	if err != nil {
		c.ackBad(frame.AckID, ErrConversationNotFound.Error())
		return
	}
	ok, err := c.svc.conversations.IsParticipant(conv.ID, c.user.ID)
	if err != nil {
		c.ackBad(frame.AckID, "internal error")
		return
	}
	if !ok {
		c.ackBad(frame.AckID, ErrNotParticipant.Error())
		return
	}

	history, err := c.svc.messages.History(conv.ID)
	if err != nil {
		c.ackBad(frame.AckID, "internal error")
		return
	}

	// Room state moves only once the join has actually succeeded; a BAD
	// join leaves the connection wherever it was.
	c.svc.hub.JoinRoom(c, conv.ID)
	c.writeAck(joinAck{AckID: frame.AckID, Status: statusOK, Messages: history})
}

// handleSend persists a message after re-checking membership. Joining the
// room first is not required and the persisted message is not pushed to the
// room; the sender gets the ack and nothing else moves on the wire.
func (c *Client) handleSend(frame eventFrame) {
	var req struct {
		ConversationID string `json:"conversationId"`
		Content        string `json:"content"`
	}
	if err := json.Unmarshal(frame.Data, &req); err != nil || req.ConversationID == "" || req.Content == "" {
		c.ackBad(frame.AckID, "invalid message payload")
		return
	}

	conv, err := c.svc.conversations.GetByID(req.ConversationID)
	if err != nil {
		c.ackBad(frame.AckID, ErrConversationNotFound.Error())
		return
	}
	ok, err := c.svc.conversations.IsParticipant(conv.ID, c.user.ID)
	if err != nil {
		c.ackBad(frame.AckID, "internal error")
		return
	}
	if !ok {
		c.ackBad(frame.AckID, ErrNotParticipant.Error())
		return
	}

	if _, err := c.svc.messages.Append(conv.ID, c.user.ID, req.Content); err != nil {
		c.ackBad(frame.AckID, "failed to send message")
		return
	}
	c.writeAck(okAck{AckID: frame.AckID, Status: statusOK})
}

func (c *Client) ackBad(ackID int64, msg string) {
	c.writeAck(badAck{AckID: ackID, Status: statusBAD, Err: &ackError{Msg: msg}})
}

func (c *Client) writeAck(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal ack: %v", err)
		return
	}
	select {
	case c.send <- payload:
	default:
		// Every frame with an ackId gets exactly one terminal outcome; a
		// client too slow to take its ack is disconnected, never starved.
		c.svc.hub.Drop(c)
	}
}
