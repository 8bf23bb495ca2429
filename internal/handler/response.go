package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Period echoes the requested time range in list-by-period responses
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Data    any     `json:"data,omitempty"`
	Errors  any     `json:"errors,omitempty"`
	Total   *int    `json:"total,omitempty"`
	Period  *Period `json:"period,omitempty"`
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondList(c *gin.Context, data any, total int, period *Period) {
	c.JSON(200, Response{Success: true, Data: data, Total: &total, Period: period})
}

func respondError(c *gin.Context, status int, message string, errs any) {
	c.JSON(status, Response{Success: false, Message: message, Errors: errs})
}
