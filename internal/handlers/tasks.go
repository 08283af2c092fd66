package handlers

import (
	"errors"
	"net/http"

	"taskify/internal/apierr"
	"taskify/internal/models"
	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "not authenticated")
		return
	}

	tasks, err := h.taskService.ListTasks(h.db, userID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "not authenticated")
		return
	}

	var input struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(h.db, userID, input.Title, input.Description)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, id, ok := h.taskRequest(c)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(h.db, userID, id, patch)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, id, ok := h.taskRequest(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(h.db, userID, id); err != nil {
		handleTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	h.setCompleted(c, true)
}

func (h *TaskHandler) UncompleteTask(c *gin.Context) {
	h.setCompleted(c, false)
}

func (h *TaskHandler) setCompleted(c *gin.Context, completed bool) {
	userID, id, ok := h.taskRequest(c)
	if !ok {
		return
	}

	task, err := h.taskService.SetCompleted(h.db, userID, id, completed)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) taskRequest(c *gin.Context) (userID, id uuid.UUID, ok bool) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	id, err = uuid.FromString(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid task id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, apierr.CodeNotFound, "task not found")
	case errors.Is(err, models.ErrTitleEmpty), errors.Is(err, models.ErrTitleTooLong):
		respondError(c, http.StatusBadRequest, apierr.CodeValidation, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, apierr.CodeInternal, "failed to process task request")
	}
}
