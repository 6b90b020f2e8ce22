package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

func successResponse(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Response{Status: "success", Message: message, Data: data})
}

func pagedResponse(c echo.Context, message string, data interface{}, meta Meta) error {
	return c.JSON(200, Response{Status: "success", Message: message, Data: data, Meta: &meta})
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, Response{Status: "error", Message: message})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
