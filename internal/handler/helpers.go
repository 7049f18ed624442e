package handler

import (
	"errors"
	"net/http"
	"reflect"

	"fiadopos/internal/apierror"
	"fiadopos/internal/middleware"
	"fiadopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramUUID parses a path parameter, writing a 400 when it is not a UUID.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// identidad returns the acting user or writes a 401.
func identidad(c *gin.Context) (service.Identidad, bool) {
	id := middleware.IdentidadDesde(c)
	if id.UsuarioID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return id, false
	}
	return id, true
}

// responderError maps service errors to HTTP status codes. Anything outside
// the taxonomy is logged and answered with a generic 500.
func responderError(c *gin.Context, err error) {
	status := statusDe(err)
	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("error interno")
		c.JSON(status, apierror.New("Error interno del servidor"))
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

func statusDe(err error) int {
	switch {
	case errors.Is(err, service.ErrTransaccion):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrNoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMontoInvalido),
		errors.Is(err, service.ErrVentaNoFiada),
		errors.Is(err, service.ErrClienteRequerido):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSobrepago),
		errors.Is(err, service.ErrLimiteCredito),
		errors.Is(err, service.ErrSinDeuda),
		errors.Is(err, service.ErrDuplicado):
		return http.StatusConflict
	case errors.Is(err, service.ErrCredenciales):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPermisos),
		errors.Is(err, service.ErrUltimoAdmin):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
