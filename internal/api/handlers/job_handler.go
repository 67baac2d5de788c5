package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/services"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) List(c *gin.Context) {
	urgent, err := boolParam(c, "urgent")
	if err != nil {
		writeError(c, err)
		return
	}
	rows, err := h.svc.List(c.Request.Context(), services.JobQuery{
		Company:    c.Query("company"),
		Profession: c.Query("profession"),
		Country:    c.Query("country"),
		Province:   c.Query("province"),
		City:       c.Query("city"),
		Status:     c.Query("status"),
		JobType:    c.Query("job_type"),
		Urgent:     urgent,
		Search:     c.Query("q"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, rows)
}

func (h *JobHandler) Get(c *gin.Context) {
	j, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, j)
}

func (h *JobHandler) Create(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.Create", err)
		return
	}
	j, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, j)
}

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.Update", err)
		return
	}
	j, err := h.svc.Update(c.Request.Context(), id, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, j)
}

func (h *JobHandler) Apply(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.ApplyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.Apply", err)
		return
	}
	app, err := h.svc.Apply(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, app)
}

func (h *JobHandler) ReviewApplication(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.ReviewApplication", err)
		return
	}
	app, err := h.svc.ReviewApplication(c.Request.Context(), id, c.Param("id"), c.Param("applicant_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, app)
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	apps, err := h.svc.ListApplications(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, apps)
}

func (h *JobHandler) MyApplications(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	rows, err := h.svc.MyApplications(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, rows)
}

func (h *JobHandler) DownloadCV(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	f, err := h.svc.OpenApplicantCV(c.Request.Context(), id, c.Query("job_id"), c.Query("applicant_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	sendFile(c, f)
}

func (h *JobHandler) UploadImage(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	up, err := openUpload(c, "JobHandler.UploadImage", "image", acceptImage)
	if err != nil {
		writeError(c, err)
		return
	}
	defer up.Close()

	j, err := h.svc.UploadImage(c.Request.Context(), id, c.Param("id"), up.name, up.size, up.r)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, j)
}
