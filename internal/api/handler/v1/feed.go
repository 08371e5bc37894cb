package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/venuepass/checkin-api/internal/api/handler/v1/response"
	"github.com/venuepass/checkin-api/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type feedClient struct {
	conn    *websocket.Conn
	send    chan []byte
	eventID uint
}

// FeedHandler pushes every scan outcome to connected organizer
// dashboards over websockets, so the room sees check-ins as they
// happen without polling the scan logs.
type FeedHandler struct {
	uSvc UserService

	// clients is owned by the Run goroutine; all mutation goes through
	// the register/unregister channels.
	clients    map[*feedClient]bool
	broadcast  chan feedMessage
	register   chan *feedClient
	unregister chan *feedClient
}

type feedMessage struct {
	eventID uint
	payload []byte
}

func NewFeedHandler(uSvc UserService) *FeedHandler {
	return &FeedHandler{
		uSvc:       uSvc,
		clients:    make(map[*feedClient]bool),
		broadcast:  make(chan feedMessage, 64),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
	}
}

func (h *FeedHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if client.eventID != message.eventID {
					continue
				}
				select {
				case client.send <- message.payload:
				default:
					// Slow consumer; drop it rather than stall the feed.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Publish fans a scan result out to the event's subscribers. It never
// blocks the scan path.
func (h *FeedHandler) Publish(result domain.ScanResult) {
	if result.Registration.EventID == 0 {
		return
	}

	payload, err := json.Marshal(response.NewScanResponse(result))
	if err != nil {
		zap.L().Warn("failed to marshal scan feed message", zap.Error(err))

		return
	}

	select {
	case h.broadcast <- feedMessage{eventID: result.Registration.EventID, payload: payload}:
	default:
		zap.L().Warn("scan feed backlog full, dropping message",
			zap.Uint("event_id", result.Registration.EventID))
	}
}

// HandleScanFeed godoc
// @Summary      Subscribe to live scan outcomes for an event
// @Description  Upgrades to a websocket and streams scan results as they are committed. Organizer or admin only.
// @Tags         events,scan
// @Param        eventID  path  int  true  "Event ID"
// @Success      101
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /events/{eventID}/scan-feed [get]
// @Security BearerAuth
func (h *FeedHandler) HandleScanFeed(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.CanManageEvent() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not authorized to watch the scan feed", user.ID)))

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))

		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("failed to upgrade scan feed connection", zap.Error(err))

		return
	}

	client := &feedClient{
		conn:    conn,
		send:    make(chan []byte, 16),
		eventID: uint(eventID),
	}

	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *FeedHandler) writePump(client *feedClient) {
	defer client.conn.Close()

	for payload := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; it exists to notice disconnects.
func (h *FeedHandler) readPump(client *feedClient) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
