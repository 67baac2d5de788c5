package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/services"
)

type CompanyHandler struct {
	svc services.CompanyService
}

func NewCompanyHandler(svc services.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

func (h *CompanyHandler) List(c *gin.Context) {
	verified, err := boolParam(c, "verified")
	if err != nil {
		writeError(c, err)
		return
	}
	rows, err := h.svc.List(c.Request.Context(), services.CompanyQuery{
		Continent: c.Query("continent"),
		Country:   c.Query("country"),
		Province:  c.Query("province"),
		City:      c.Query("city"),
		Industry:  c.Query("industry"),
		Verified:  verified,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, rows)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	co, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, co)
}

func (h *CompanyHandler) Mine(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	co, err := h.svc.Mine(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, co)
}

func (h *CompanyHandler) Create(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CompanyHandler.Create", err)
		return
	}
	co, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, co)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CompanyHandler.Update", err)
		return
	}
	co, err := h.svc.Update(c.Request.Context(), id, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, co)
}
