package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/api/middleware"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/utils"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeOK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	msg := http.StatusText(status)
	var ae *utils.AppError
	if errors.As(err, &ae) && status < http.StatusInternalServerError && ae.Message != "" {
		msg = ae.Message
	}
	c.JSON(status, Response{Success: false, Message: msg})
}

func badRequest(c *gin.Context, op string, err error) {
	writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
}

func requireIdentity(c *gin.Context) (auth.Identity, bool) {
	if id, ok := middleware.IdentityFrom(c); ok {
		return id, true
	}
	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return auth.Identity{}, false
}

// activeParam reads the active filter: default true, "all" for no filter.
func activeParam(c *gin.Context) (*bool, error) {
	raw := strings.TrimSpace(c.Query("active"))
	switch raw {
	case "":
		v := true
		return &v, nil
	case "all":
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, "Query", "active must be true, false or all", err)
	}
	return &v, nil
}

// boolParam reads an optional boolean query parameter.
func boolParam(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, "Query", name+" must be a boolean", err)
	}
	return &v, nil
}
