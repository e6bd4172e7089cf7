package transport

import (
	"net/http"
	"strconv"

	"oohunt/internal/cache"
	"oohunt/internal/domain"
	"oohunt/internal/metrics"
	"oohunt/internal/middleware"

	"go.uber.org/zap"
)

// statusFor maps an error kind to its HTTP status. Conflicts are reported
// as 400 like validation failures.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// responder writes domain errors in either envelope. Debug adds the
// underlying error text to CMS responses.
type responder struct {
	logger *zap.Logger
	debug  bool
}

func (rs responder) log(r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		rs.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		return
	}
	rs.logger.Debug("Request rejected",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
}

// fail writes err as a CMS envelope
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(domain.KindOf(err))
	rs.log(r, status, err)

	body := middleware.Envelope{Status: false, Message: domain.MessageOf(err)}
	if rs.debug {
		body.Error = err.Error()
	}
	middleware.RespondWithJSON(w, status, body)
}

// failCode writes err as a favorites envelope
func (rs responder) failCode(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(domain.KindOf(err))
	rs.log(r, status, err)
	middleware.RespondWithCode(w, status, domain.MessageOf(err), nil)
}

// badBody writes a decode or validator failure
func (rs responder) badBody(w http.ResponseWriter, r *http.Request, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		rs.log(r, http.StatusBadRequest, err)
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	rs.fail(w, r, domain.NewValidationError(err.Error()))
}

// queryInt reads a positive integer query parameter, 0 when absent or not a number
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// revalidate drops cached public responses for tags after a write. A cache
// failure does not undo the write, so it is only logged.
func revalidate(r *http.Request, store cache.Store, logger *zap.Logger, tags ...string) {
	for _, tag := range tags {
		err := store.RevalidateTag(r.Context(), tag)
		metrics.RecordRevalidation(tag, err)
		if err != nil {
			logger.Warn("Failed to revalidate cache tag", zap.String("tag", tag), zap.Error(err))
		}
	}
}
