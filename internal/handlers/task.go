package handlers

import (
	"strconv"

	"github.com/Hangeony/DOT-DAILY/internal/config"
	"github.com/Hangeony/DOT-DAILY/internal/database"
	"github.com/Hangeony/DOT-DAILY/internal/middleware"
	"github.com/Hangeony/DOT-DAILY/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(db *database.DB, cfg *config.Config) *TaskHandler {
	return &TaskHandler{
		service: services.NewTaskService(db, cfg),
	}
}

func SetupTaskRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewTaskHandler(db, cfg)

	router.Get("/", h.List)
	router.Get("/by-date", h.ListByDate)
	router.Post("/", h.Create)
	router.Put("/:id", h.Update)
	router.Patch("/:id/toggle", h.Toggle)
	router.Put("/:id/defer", h.Defer)
	router.Delete("/:id", h.Delete)
}

// List godoc
// @Summary List all active (non-archived) tasks
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Task
// @Router /todos [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	tasks, err := h.service.List(session.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": tasks})
}

// ListByDate godoc
// @Summary List a single day's tasks
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} models.Task
// @Router /todos/by-date [get]
func (h *TaskHandler) ListByDate(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)
	date := c.Query("date")

	tasks, err := h.service.ListByDate(session.UserID, date)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": tasks})
}

// Create godoc
// @Summary Create a task (status starts at pending)
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateTaskRequest true "Task data"
// @Success 201 {object} models.Task
// @Router /todos [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	var req services.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := h.service.Create(session.UserID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": task})
}

// Update godoc
// @Summary Partially update a task
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body services.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} models.Task
// @Router /todos/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var req services.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := h.service.Update(session.UserID, uint(id), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": task})
}

// Toggle godoc
// @Summary Toggle completion against the persisted status
// @Description success는 pending으로, 나머지 상태는 전부 success로 전환된다
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Router /todos/{id}/toggle [patch]
func (h *TaskHandler) Toggle(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	task, err := h.service.ToggleCompletion(session.UserID, uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": task})
}

// Defer godoc
// @Summary Defer a task to tomorrow (status retry)
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Router /todos/{id}/defer [put]
func (h *TaskHandler) Defer(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	task, err := h.service.DeferToTomorrow(session.UserID, uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": task})
}

// Delete godoc
// @Summary Delete a task
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Router /todos/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	if err := h.service.Delete(session.UserID, uint(id)); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
