package domain

import "time"

// Response is the success envelope every API endpoint returns.
type Response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the failure envelope. It never carries internal detail.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PaginatedResponse wraps a page of results with pagination metadata.
type PaginatedResponse struct {
	Response

	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

func OK(message string, data any) Response {
	return Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Source:    "api",
		Timestamp: time.Now().UTC(),
	}
}

func Error(message string) ErrorResponse {
	return ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
