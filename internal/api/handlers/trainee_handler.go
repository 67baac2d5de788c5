package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/services"
)

type TraineeHandler struct {
	svc services.TraineeService
}

func NewTraineeHandler(svc services.TraineeService) *TraineeHandler {
	return &TraineeHandler{svc: svc}
}

func (h *TraineeHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), profileQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, rows)
}

func (h *TraineeHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, t)
}

func (h *TraineeHandler) Mine(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	t, err := h.svc.Mine(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, t)
}

func (h *TraineeHandler) Create(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.TraineeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "TraineeHandler.Create", err)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, t)
}

func (h *TraineeHandler) Update(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.TraineeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "TraineeHandler.Update", err)
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, t)
}
