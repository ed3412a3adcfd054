package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-chat-reminder/internal/app"
)

// RoomsTokenHeader lets the caller list rooms with its own chat token.
const RoomsTokenHeader = "X-ChatWork-Token"

type ChatHandler struct {
	useCase app.ChatUseCase
}

func NewChatHandler(useCase app.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		useCase: useCase,
	}
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.useCase.ListRooms(ctx, app.ListRoomsInput{
		Token: c.GetHeader(RoomsTokenHeader),
	})
	if err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "rooms listed",
		"count", output.Count,
	)
	c.JSON(http.StatusOK, FromRoomsDTO(output))
}

func (h *ChatHandler) SendTestMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req SendTestMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)

		return
	}

	if err := h.useCase.SendTestMessage(ctx, app.SendTestMessageInput{
		RoomID:   req.RoomID,
		Message:  req.Message,
		APIToken: req.APIToken,
	}); err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "test message delivered",
		"room_id", req.RoomID,
	)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rooms", h.ListRooms)
	router.POST("/test", h.SendTestMessage)
}
