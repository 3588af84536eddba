package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/hairwise/hairwise-backend/internal/livesync"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 25 * time.Second
)

// WSHandler streams live-sync hints to a client holding its conversation
// list open. Frames carry no row data; the client re-fetches on each one.
type WSHandler struct {
	sync     livesync.Broker
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(sync livesync.Broker, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		sync: sync,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(websocket.PingMessage, nil)
}

// ConversationsWS subscribes the caller to their own conversation
// change-feed for the lifetime of the socket. The subscription is released
// when the socket goes away, whichever side closes first.
func (h *WSHandler) ConversationsWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sub, err := h.sync.Subscribe(c.Request.Context(), livesync.OwnerScope(userID))
	if err != nil {
		writeError(c, err)
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}

	// reader exists only to notice the peer going away
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pinger := time.NewTicker(wsPingPeriod)
	defer pinger.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-c.Request.Context().Done():
			return
		case <-pinger.C:
			if err := wc.ping(); err != nil {
				return
			}
		case e, ok := <-sub.C():
			if !ok {
				return
			}
			if err := wc.writeJSON(e); err != nil {
				h.log.WithField("user_id", userID).WithError(err).Debug("ws write failed")
				return
			}
		}
	}
}
