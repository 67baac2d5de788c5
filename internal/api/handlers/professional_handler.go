package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/services"
)

type ProfessionalHandler struct {
	svc services.ProfessionalService
}

func NewProfessionalHandler(svc services.ProfessionalService) *ProfessionalHandler {
	return &ProfessionalHandler{svc: svc}
}

func profileQuery(c *gin.Context) services.ProfileQuery {
	return services.ProfileQuery{
		Profession: c.Query("profession"),
		Country:    c.Query("country"),
		City:       c.Query("city"),
		Search:     c.Query("q"),
	}
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), profileQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, rows)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, p)
}

func (h *ProfessionalHandler) Mine(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	p, err := h.svc.Mine(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, p)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.ProfessionalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ProfessionalHandler.Create", err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, p)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.ProfessionalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ProfessionalHandler.Update", err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, p)
}

func (h *ProfessionalHandler) Claim(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	p, err := h.svc.Claim(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, p)
}

func (h *ProfessionalHandler) UploadCV(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	up, err := openUpload(c, "ProfessionalHandler.UploadCV", "cv", acceptCV)
	if err != nil {
		writeError(c, err)
		return
	}
	defer up.Close()

	p, err := h.svc.UploadCV(c.Request.Context(), id, up.name, up.size, up.r)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, p)
}

func (h *ProfessionalHandler) DownloadCV(c *gin.Context) {
	f, err := h.svc.OpenCV(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	sendFile(c, f)
}
