package controllers

import (
	"net/http"

	"github.com/dcastano/brandpulse-backend/api/responses"
	pkgerrors "github.com/dcastano/brandpulse-backend/pkg/errors"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
)

// NotEnabled answers reserved routes whose feature is not part of this
// deployment yet.
func NotEnabled(feature string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotEnabled, feature+" is not enabled"))
	}
}
