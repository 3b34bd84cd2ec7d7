package middlewares

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/handlerutils"
	"github.com/fekuna/trimstore-service/internal/servererrors"
)

// ErrorHandler turns the error returned by h into a JSON response. Client
// errors keep their message; anything else is logged and reported as 500.
func (mw *Middleware) ErrorHandler(h handlerutils.APIHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var serverError *servererrors.ServerError
		if errors.As(err, &serverError) && serverError.StatusCode < http.StatusInternalServerError {
			mw.logger.Debug("request rejected",
				zap.String("path", r.URL.Path),
				zap.Int("status", serverError.StatusCode),
				zap.Error(err),
			)
			_ = handlerutils.WriteErrorJSON(w, serverError.StatusCode, serverError.Error(), serverError.Errors)
			return
		}

		mw.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		if serverError != nil {
			_ = handlerutils.WriteErrorJSON(w, serverError.StatusCode, serverError.Error(), nil)
			return
		}
		_ = handlerutils.WriteErrorJSON(w, http.StatusInternalServerError, "something went wrong", nil)
	}
}
