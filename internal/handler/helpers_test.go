package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fiadopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusDe(t *testing.T) {
	cases := map[error]int{
		service.ErrNoEncontrado:     http.StatusNotFound,
		service.ErrMontoInvalido:    http.StatusUnprocessableEntity,
		service.ErrVentaNoFiada:     http.StatusUnprocessableEntity,
		service.ErrClienteRequerido: http.StatusUnprocessableEntity,
		service.ErrSobrepago:        http.StatusConflict,
		service.ErrLimiteCredito:    http.StatusConflict,
		service.ErrSinDeuda:         http.StatusConflict,
		service.ErrDuplicado:        http.StatusConflict,
		service.ErrCredenciales:     http.StatusUnauthorized,
		service.ErrPermisos:         http.StatusForbidden,
		service.ErrUltimoAdmin:      http.StatusForbidden,
		service.ErrTransaccion:      http.StatusInternalServerError,
		errors.New("otra cosa"):     http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusDe(err), err.Error())
		assert.Equal(t, want, statusDe(fmt.Errorf("contexto: %w", err)), "wrapped "+err.Error())
	}
}

func TestResponderError_OcultaDetalleInterno(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	responderError(c, fmt.Errorf("%w: pq: connection refused", service.ErrTransaccion))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

// ── Deudas ────────────────────────────────────────────────────────────────────

type stubDeudaService struct {
	service.DeudaService
	deuda decimal.Decimal
	err   error
}

func (s *stubDeudaService) CalcularDeudaReal(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return s.deuda, s.err
}

func (s *stubDeudaService) SincronizarTodos(_ context.Context) (*service.ReporteSincronizacion, error) {
	return &service.ReporteSincronizacion{TotalClientes: 3}, s.err
}

func deudasRouter(svc service.DeudaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDeudasHandler(svc, nil)
	r.GET("/clientes/:id/deuda", h.DeudaReal)
	r.POST("/deudas/sincronizar", h.SincronizarTodos)
	return r
}

func TestDeudaReal(t *testing.T) {
	r := deudasRouter(&stubDeudaService{deuda: decimal.RequireFromString("120")})
	id := uuid.New()

	w := doJSON(r, http.MethodGet, "/clientes/"+id.String()+"/deuda", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cliente_id":"`+id.String()+`","deuda_real":"120"}`, w.Body.String())

	r = deudasRouter(&stubDeudaService{err: service.ErrNoEncontrado})
	w = doJSON(r, http.MethodGet, "/clientes/"+id.String()+"/deuda", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSincronizarTodos(t *testing.T) {
	r := deudasRouter(&stubDeudaService{})

	w := doJSON(r, http.MethodPost, "/deudas/sincronizar", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_clientes":3`)
	assert.Contains(t, w.Body.String(), `"diferencias":[]`)

	w = doJSON(r, http.MethodPost, "/deudas/sincronizar?async=true", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestIdentidad_SinClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, ok := identidad(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
