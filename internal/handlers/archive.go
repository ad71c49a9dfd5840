package handlers

import (
	"strconv"

	"github.com/Hangeony/DOT-DAILY/internal/config"
	"github.com/Hangeony/DOT-DAILY/internal/database"
	"github.com/Hangeony/DOT-DAILY/internal/middleware"
	"github.com/Hangeony/DOT-DAILY/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ArchiveHandler serves the archive view. 보관함은 별도 테이블이 아니라
// status=archive인 task의 뷰다.
type ArchiveHandler struct {
	service *services.TaskService
}

func NewArchiveHandler(db *database.DB, cfg *config.Config) *ArchiveHandler {
	return &ArchiveHandler{
		service: services.NewTaskService(db, cfg),
	}
}

func SetupArchiveRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewArchiveHandler(db, cfg)

	router.Get("/", h.List)
	router.Put("/:id", h.Update)
	router.Put("/:id/restore", h.Restore)
	router.Delete("/:id", h.Delete)
}

// List godoc
// @Summary List archived tasks
// @Tags archive
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Task
// @Router /archive [get]
func (h *ArchiveHandler) List(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	tasks, err := h.service.ListArchived(session.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": tasks})
}

// Update godoc
// @Summary Update a task in the archive
// @Tags archive
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body services.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} models.Task
// @Router /archive/{id} [put]
func (h *ArchiveHandler) Update(c *fiber.Ctx) error {
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

// Restore godoc
// @Summary Restore a task from the archive to today's list
// @Tags archive
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Router /archive/{id}/restore [put]
func (h *ArchiveHandler) Restore(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	task, err := h.service.RestoreFromArchive(session.UserID, uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": task})
}

// Delete godoc
// @Summary Delete a task from the archive
// @Tags archive
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Router /archive/{id} [delete]
func (h *ArchiveHandler) Delete(c *fiber.Ctx) error {
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
