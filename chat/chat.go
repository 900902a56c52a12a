package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mingle/db"
	"mingle/middleware"
	"mingle/models"
	"mingle/rdx"
	"mingle/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const historyLimit = 30

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// inboundPayload represents what clients send us:
type inboundPayload struct {
	Action  string `json:"action"`            // "chat"
	Content string `json:"content,omitempty"` // message text
}

// outboundPayload is what we broadcast to every client:
type outboundPayload struct {
	Action    string `json:"action"`
	ID        string `json:"id"`
	Room      string `json:"room,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// socketUserID resolves the caller. Upgrade requests bypass the auth
// middleware (browsers cannot set Authorization on a WebSocket), so
// the token rides in the query string instead.
func socketUserID(r *http.Request) string {
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		return userID
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		return ""
	}
	claims, err := middleware.ValidateJWT("Bearer " + token)
	if err != nil {
		return ""
	}
	return claims.UserID
}

// Chat rooms are outings; membership gates the socket.
func authorizeMembership(userID, room string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	cnt, err := db.OutingsCollection.CountDocuments(ctx, bson.M{"outingid": room, "members": userID})
	if err != nil {
		log.Printf("membership check failed for %s/%s: %v", userID, room, err)
		return false
	}
	return cnt > 0
}

func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room := ps.ByName("room")
		userID := socketUserID(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !authorizeMembership(userID, room) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   room,
			UserID: userID,
		}

		go replayHistory(client)

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

// replayHistory sends the most recent messages oldest first. Pending
// messages still sitting in the redis buffer come after the persisted
// ones so ordering holds across the flush boundary.
func replayHistory(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(historyLimit)

	history, err := utils.FindAndDecode[models.Message](ctx, db.MessagesCollection, bson.M{"room": client.Room}, opts)
	if err != nil {
		log.Println("history find:", err)
		return
	}
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		out := outboundPayload{
			Action:    "chat",
			ID:        m.MessageID,
			Room:      m.Room,
			SenderID:  m.SenderID,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
		if data, err := json.Marshal(out); err == nil {
			if !client.trySend(data) {
				return
			}
		}
	}

	pending, err := rdx.Conn.LRange(ctx, "chat:"+client.Room+":messages", 0, -1).Result()
	if err != nil {
		return
	}
	for _, raw := range pending {
		var m models.Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		out := outboundPayload{
			Action:    "chat",
			ID:        m.MessageID,
			Room:      m.Room,
			SenderID:  m.SenderID,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
		if data, err := json.Marshal(out); err == nil {
			if !client.trySend(data) {
				return
			}
		}
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inboundPayload
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("invalid payload:", err)
			continue
		}
		if in.Action != "chat" || in.Content == "" {
			continue
		}

		msg := models.Message{
			MessageID: "m" + utils.GenerateRandomDigitString(16),
			Room:      c.Room,
			SenderID:  c.UserID,
			Content:   in.Content,
			Timestamp: time.Now().Unix(),
		}

		// Buffer in redis; the flush worker batches inserts to mongo.
		buf, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdx.Conn.RPush(ctx, "chat:"+c.Room+":messages", buf).Err(); err != nil {
			log.Println("buffer push:", err)
			cancel()
			continue
		}
		cancel()

		out := outboundPayload{
			Action:    "chat",
			ID:        msg.MessageID,
			Room:      msg.Room,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if data, _ := json.Marshal(out); data != nil {
			hub.broadcast <- broadcastMsg{Room: c.Room, Data: data}
		}
	}
}

// GET /api/outings/:outingid/messages
func GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	room := ps.ByName("id")
	if !authorizeMembership(userID, room) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 50, 200)
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	msgs, err := utils.FindAndDecode[models.Message](ctx, db.MessagesCollection, bson.M{"room": room}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, msgs)
}
