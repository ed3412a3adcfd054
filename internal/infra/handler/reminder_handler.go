package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-chat-reminder/internal/app"
)

type ReminderHandler struct {
	useCase app.ReminderUseCase
}

func NewReminderHandler(useCase app.ReminderUseCase) *ReminderHandler {
	return &ReminderHandler{
		useCase: useCase,
	}
}

func (h *ReminderHandler) ListReminders(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.useCase.ListReminders(ctx)
	if err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "reminders listed",
		"count", output.Count,
	)
	c.JSON(http.StatusOK, FromDTOs(output))
}

func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)

		return
	}

	output, err := h.useCase.CreateReminder(ctx, app.CreateReminderInput{
		Name:     req.Name,
		RoomID:   req.RoomID,
		Message:  req.Message,
		Schedule: toScheduleInput(*req.Schedule),
		APIToken: req.APIToken,
	})
	if err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "reminder created successfully",
		"reminder_id", output.Reminder.ID,
	)
	c.JSON(http.StatusCreated, FromSaveDTO(output))
}

func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)

		return
	}

	input := app.UpdateReminderInput{
		ID:       id,
		Name:     req.Name,
		RoomID:   req.RoomID,
		Message:  req.Message,
		Enabled:  req.Enabled,
		APIToken: req.APIToken,
	}

	if req.Schedule != nil {
		s := toScheduleInput(*req.Schedule)
		input.Schedule = &s
	}

	output, err := h.useCase.UpdateReminder(ctx, input)
	if err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "reminder updated successfully",
		"reminder_id", id,
	)
	c.JSON(http.StatusOK, FromSaveDTO(output))
}

func (h *ReminderHandler) ToggleReminder(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	output, err := h.useCase.ToggleReminder(ctx, app.ToggleReminderInput{ID: id})
	if err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "reminder toggled successfully",
		"reminder_id", id,
		"enabled", output.Reminder.Enabled,
	)
	c.JSON(http.StatusOK, FromSaveDTO(output))
}

func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	output, err := h.useCase.DeleteReminder(ctx, app.DeleteReminderInput{ID: id})
	if err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "reminder deleted successfully",
		"reminder_id", id,
	)
	c.JSON(http.StatusOK, DeleteReminderResponse{
		Success: true,
		ID:      output.ID,
		JobSync: FromJobSync(output.JobSync),
	})
}

func (h *ReminderHandler) SyncJobs(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.useCase.SyncJobs(ctx)
	if err != nil {
		handleError(c, err)

		return
	}

	slog.InfoContext(ctx, "job sync requested",
		"ok", output.OK,
	)
	c.JSON(http.StatusOK, FromJobSync(output))
}

func (h *ReminderHandler) RegisterRoutes(router *gin.RouterGroup) {
	reminders := router.Group("/reminders")
	{
		reminders.GET("", h.ListReminders)
		reminders.POST("", h.CreateReminder)
		reminders.POST("/sync", h.SyncJobs)
		reminders.PUT("/:id", h.UpdateReminder)
		reminders.POST("/:id/toggle", h.ToggleReminder)
		reminders.DELETE("/:id", h.DeleteReminder)
	}
}

func toScheduleInput(req ScheduleRequest) app.ScheduleInput {
	return app.ScheduleInput{
		Type:       req.Type,
		Time:       req.Time,
		DayOfWeek:  req.DayOfWeek.Int(),
		DayOfMonth: req.DayOfMonth.Int(),
	}
}
