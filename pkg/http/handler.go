package http

import "github.com/labstack/echo/v4"

// Handler registers a group of API routes on the echo server. Each feature
// handler (backtests, health) implements it and is mounted at startup.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
