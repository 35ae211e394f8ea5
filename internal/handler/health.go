package handler

import (
	"net/http"

	"github.com/damiolat/onboardly/internal/errHandler"
	"github.com/damiolat/onboardly/internal/response"
	"github.com/damiolat/onboardly/internal/version"
)

type healthCheckHandler struct {
	err *errHandler.ErrorHandler
}

func NewHealthCheckHandler(err *errHandler.ErrorHandler) *healthCheckHandler {
	return &healthCheckHandler{
		err: err,
	}
}

func (h *healthCheckHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"version": version.Get(),
	}

	err := response.JSONOkResponse(w, data, "Up and grateful", nil)
	if err != nil {
		h.err.ServerError(w, r, err)
	}
}
