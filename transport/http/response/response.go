package response

import (
	"encoding/json"
	"errors"
	"guestroom/shared/constant"
	"guestroom/shared/failure"
	"guestroom/shared/logger"
	"net/http"
)

// Data, Error and Message are the three response envelopes of the API.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(w http.ResponseWriter, code int, message string) {
	write(w, code, Message{Message: &message})
}

func WithJSON(w http.ResponseWriter, code int, payload any) {
	write(w, code, Data[any]{Data: &payload})
}

// WithError answers with the status and message of a failure.Failure. Any other error is
// logged with its stack and answered with a generic 500 so internals never leak.
func WithError(w http.ResponseWriter, err error) {
	message := constant.ResponseErrorInternal

	var fail *failure.Failure
	if errors.As(err, &fail) {
		message = fail.Message
	} else {
		logger.ErrorWithStack(err)
	}

	write(w, failure.GetCode(err), Error{Error: &message})
}

func WithRequestLimitExceeded(w http.ResponseWriter) {
	WithMessage(w, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		http.Error(w, constant.ResponseErrorInternal, http.StatusInternalServerError)

		return
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
