package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/services"
)

// GeoHandler serves one level of the continent > country > province > city
// hierarchy. parentParam is the query parameter filtering by parent, empty
// for continents.
type GeoHandler[T any] struct {
	svc         services.GeoService[T]
	parentParam string
}

func NewGeoHandler[T any](svc services.GeoService[T], parentParam string) *GeoHandler[T] {
	return &GeoHandler[T]{svc: svc, parentParam: parentParam}
}

func (h *GeoHandler[T]) List(c *gin.Context) {
	active, err := activeParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	q := services.GeoQuery{Active: active, Name: c.Query("name")}
	if h.parentParam != "" {
		q.ParentID = c.Query(h.parentParam)
	}

	rows, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, rows)
}

func (h *GeoHandler[T]) Get(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, row)
}

func (h *GeoHandler[T]) Create(c *gin.Context) {
	var req services.GeoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "GeoHandler.Create", err)
		return
	}
	row, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, row)
}

func (h *GeoHandler[T]) Update(c *gin.Context) {
	var req services.GeoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "GeoHandler.Update", err)
		return
	}
	row, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, row)
}
