package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/01-Gira/store-app-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Key validation errors by the wire name, not the Go field name, so the
	// fields map matches what the client actually sent (amount_paid, items).
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// renderServiceError maps a service failure onto the wire: business errors
// become field-keyed 422s (409 for concurrency conflicts, which are
// retryable), everything else is a logged 500.
func renderServiceError(c *gin.Context, err error) {
	if be, ok := apierror.AsBusiness(err); ok {
		if be.Code == apierror.CodeConcurrencyConflict {
			c.JSON(http.StatusConflict, apierror.New(be.Msg))
			return
		}
		field := be.Field
		if field == "" {
			field = "non_field"
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{field: be.Msg}))
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("service error")
	c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
}
