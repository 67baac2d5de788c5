package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/services"
)

type ProfessionHandler struct {
	svc services.ProfessionService
}

func NewProfessionHandler(svc services.ProfessionService) *ProfessionHandler {
	return &ProfessionHandler{svc: svc}
}

func (h *ProfessionHandler) List(c *gin.Context) {
	active, err := activeParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	rows, err := h.svc.List(c.Request.Context(), services.ProfessionQuery{
		Category: c.Query("category"),
		Active:   active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, rows)
}

func (h *ProfessionHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, p)
}

func (h *ProfessionHandler) Create(c *gin.Context) {
	var req services.ProfessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ProfessionHandler.Create", err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, p)
}

func (h *ProfessionHandler) Update(c *gin.Context) {
	var req services.ProfessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ProfessionHandler.Update", err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, p)
}

func (h *ProfessionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"id": c.Param("id")})
}
