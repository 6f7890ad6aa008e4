package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope shared by the backend and the admin client.
//
//	{ "success": true, "data": ..., "meta": {...} }
//	{ "success": false, "error": true, "code": "NOT_FOUND", "message": "..." }
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   bool        `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta is the pagination block attached to paginated list responses.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items,omitempty"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewMeta computes the pagination block for a page of a collection.
func NewMeta(page, perPage, total int) *Meta {
	if perPage <= 0 {
		perPage = total
	}
	totalPages := 1
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return &Meta{
		CurrentPage: page,
		PerPage:     perPage,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// UploadResponse is returned by POST /upload. It is not wrapped in Response.
type UploadResponse struct {
	Success      bool        `json:"success"`
	FileURL      string      `json:"file_url"`
	ThumbnailURL string      `json:"thumbnail_url"`
	FileSize     int64       `json:"file_size"`
	Dimensions   *Dimensions `json:"dimensions,omitempty"`
	Message      string      `json:"message,omitempty"`
	Code         string      `json:"code,omitempty"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
	Message string    `json:"message,omitempty"`
}

type LoginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func SuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   true,
		Code:    code,
		Message: message,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   true,
		Code:    code,
		Message: message,
		Data:    details,
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, 400, "BAD_REQUEST", message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, 401, "UNAUTHORIZED", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, 404, "NOT_FOUND", message)
}

func Conflict(c *gin.Context, message string) {
	ErrorResponse(c, 409, "CONFLICT", message)
}

func UnsupportedMedia(c *gin.Context, message string) {
	ErrorResponse(c, 415, "UNSUPPORTED_MEDIA_TYPE", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, 500, "INTERNAL_SERVER_ERROR", message)
}
