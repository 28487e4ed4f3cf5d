package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/mindcare-backend/pkg/apierr"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

const internalServerError = "Internal Server Error"

// respondServiceError writes err with the status its kind carries. Errors of no
// known kind get fallback; for 5xx the client sees a generic message and the
// cause is logged.
func respondServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, fallback int) {
	status := apierr.StatusOf(err, fallback)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			"request_id", utils.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err)
		utils.RespondWithError(w, status, internalServerError)
		return
	}
	utils.RespondWithError(w, status, clientMessage(err))
}

// clientMessage prefers the message of the typed error over the wrapped chain.
func clientMessage(err error) string {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Error()
	}
	return err.Error()
}
