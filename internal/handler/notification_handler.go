package handler

import (
	"strconv"

	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"
	internalWS "ea-licensing-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service   service.INotificationService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewNotificationHandler(service service.INotificationService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.Upgrade, websocket.New(h.Stream))

	g := r.Group("/notifications", serverutils.JwtMiddleware(h.jwtSecret))
	g.Get("/", h.List)
	g.Post("/:id/read", h.MarkAsRead)
}

// Upgrade authenticates the handshake. Browsers cannot set headers on a websocket request,
// so the token may come from the query string.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	userID, err := serverutils.ParseUserToken(h.jwtSecret, tokenStr)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	c.Locals(serverutils.LocalUserID, userID.String())
	return c.Next()
}

func (h *NotificationHandler) Stream(conn *websocket.Conn) {
	userIDStr, _ := conn.Locals(serverutils.LocalUserID).(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		conn.Close()
		return
	}
	internalWS.ServeWs(h.hub, conn, userID)
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := serverutils.RequireUserID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	res, err := h.service.List(c.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Notifications retrieved", res))
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := serverutils.RequireUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid notification id")
	}

	if err := h.service.MarkAsRead(c.UserContext(), id, userID); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}
