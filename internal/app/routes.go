package app

import (
	"net/http"

	"github.com/damiolat/onboardly/internal/handler"
	"github.com/damiolat/onboardly/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.ErrorHandler, app.Logger)
	healthHandler := handler.NewHealthCheckHandler(app.ErrorHandler)

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(mux))
}
