package response

import (
	"net/http"

	"github.com/go-chi/render"
)

const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgMissingFields    = "Missing required fields"
	MsgDatabaseError    = "Database error"
	MsgEmailError       = "Failed to send emails"
)

type Response struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK() Response {
	return Response{
		Success: true,
	}
}

func Error(msg string) Response {
	return Response{
		Error: msg,
	}
}

// JSON пишет ответ с нужным статусом.
func JSON(w http.ResponseWriter, r *http.Request, status int, v Response) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
