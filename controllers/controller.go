package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/middleware"
	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/services"
	"github.com/servicehub-pro/servicehub-api/store"
)

// Controller holds the collaborators shared by all handlers.
type Controller struct {
	Store     *store.Store
	Text      *services.TextService
	Verifier  services.Verifier
	Reports   *services.ReportService // nil when report export is not configured
	Validator *validator.Validate
	Logger    zerolog.Logger
}

// New returns a Controller. A nil text service serves static fallbacks.
func New(s *store.Store, text *services.TextService, verifier services.Verifier, reports *services.ReportService, log zerolog.Logger) *Controller {
	if text == nil {
		text = services.NewTextService(nil, log)
	}
	return &Controller{
		Store:     s,
		Text:      text,
		Verifier:  verifier,
		Reports:   reports,
		Validator: validator.New(validator.WithRequiredStructEnabled()),
		Logger:    log,
	}
}

var statusByCode = map[string]int{
	apperr.CodeValidation:         http.StatusBadRequest,
	apperr.CodeInvalidTransition:  http.StatusConflict,
	apperr.CodeDuplicateEmail:     http.StatusConflict,
	apperr.CodeUnknownPlan:        http.StatusBadRequest,
	apperr.CodeNotFound:           http.StatusNotFound,
	apperr.CodeUnauthorized:       http.StatusUnauthorized,
	apperr.CodeForbidden:          http.StatusForbidden,
	apperr.CodeVerificationFailed: http.StatusUnauthorized,
	apperr.CodePaymentFailed:      http.StatusPaymentRequired,
}

// StatusFor maps an engine error to its HTTP status.
func StatusFor(err error) int {
	if status, ok := statusByCode[apperr.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// fail writes err as an error envelope. Errors without a domain code are
// logged and reported as INTERNAL_ERROR without their message.
func (ctl *Controller) fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		respondError(c, StatusFor(err), appErr.Code, appErr.Error())
		return
	}
	ctl.Logger.Error().Err(err).
		Str("path", c.FullPath()).
		Msg("request failed")
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}

// bind decodes the JSON body into req and validates it.
func (ctl *Controller) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, apperr.CodeValidation, "Invalid request data")
		return false
	}
	if err := ctl.Validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			respondError(c, http.StatusBadRequest, apperr.CodeValidation, fieldErrs[0].Field()+" is invalid")
			return false
		}
		respondError(c, http.StatusBadRequest, apperr.CodeValidation, "Invalid request data")
		return false
	}
	return true
}

// currentUser returns the user set by middleware.RequireRole.
func (ctl *Controller) currentUser(c *gin.Context) (models.User, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		ctl.fail(c, err)
		return models.User{}, false
	}
	return user, true
}
