package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"fiadopos/internal/dto"
	"fiadopos/internal/middleware"
	"fiadopos/internal/model"
	"fiadopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAbonoService records the last call and answers with the configured
// error. Methods not overridden panic through the nil embedded interface.
type stubAbonoService struct {
	service.AbonoService
	err error

	gotID      service.Identidad
	gotVentaID uuid.UUID
	gotMonto   decimal.Decimal
}

func (s *stubAbonoService) CrearAbono(_ context.Context, id service.Identidad, ventaID uuid.UUID, monto decimal.Decimal, notas *string) (*model.Abono, error) {
	s.gotID, s.gotVentaID, s.gotMonto = id, ventaID, monto
	if s.err != nil {
		return nil, s.err
	}
	return &model.Abono{
		ID: uuid.New(), VentaID: ventaID, UsuarioID: id.UsuarioID, UsuarioNombre: id.Nombre,
		Monto: monto, Fecha: time.Now(), Notas: notas,
	}, nil
}

func (s *stubAbonoService) LiquidarCliente(_ context.Context, _ service.Identidad, clienteID uuid.UUID) (*service.DistribucionAbono, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.DistribucionAbono{
		ClienteID:  clienteID,
		MontoTotal: decimal.NewFromInt(110),
		Aplicaciones: []service.AplicacionAbono{
			{VentaID: uuid.New(), AbonoID: uuid.New(), Monto: decimal.NewFromInt(110), RestoPrevio: decimal.NewFromInt(110), VentaPagada: true},
		},
	}, nil
}

func abonosRouter(svc service.AbonoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.JWTAuth(testSecret))
	h := NewAbonosHandler(svc)
	r.POST("/ventas/:id/abonos", h.CrearAbono)
	r.POST("/clientes/:id/liquidar", h.LiquidarCliente)
	return r
}

func TestCrearAbono_Created(t *testing.T) {
	stub := &stubAbonoService{}
	r := abonosRouter(stub)
	uid, ventaID := uuid.New(), uuid.New()
	tok := signToken(t, uid.String(), model.RolVendedor, time.Hour)

	w := doJSON(r, http.MethodPost, "/ventas/"+ventaID.String()+"/abonos", map[string]interface{}{"monto": 30}, tok)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AbonoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ventaID.String(), resp.VentaID)
	assert.True(t, resp.Monto.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, uid, stub.gotID.UsuarioID)
	assert.Equal(t, "Test User", stub.gotID.Nombre)
}

func TestCrearAbono_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("monto 80 > resto 50: %w", service.ErrSobrepago), http.StatusConflict},
		{service.ErrVentaNoFiada, http.StatusUnprocessableEntity},
		{fmt.Errorf("venta: %w", service.ErrNoEncontrado), http.StatusNotFound},
		{service.ErrMontoInvalido, http.StatusUnprocessableEntity},
	}
	tok := signToken(t, uuid.New().String(), model.RolVendedor, time.Hour)
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r := abonosRouter(&stubAbonoService{err: tc.err})
			w := doJSON(r, http.MethodPost, "/ventas/"+uuid.NewString()+"/abonos", map[string]interface{}{"monto": "-5"}, tok)
			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), "detail")
		})
	}
}

func TestCrearAbono_InvalidUUID(t *testing.T) {
	stub := &stubAbonoService{}
	r := abonosRouter(stub)
	tok := signToken(t, uuid.New().String(), model.RolVendedor, time.Hour)

	w := doJSON(r, http.MethodPost, "/ventas/123/abonos", map[string]interface{}{"monto": 30}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, uuid.Nil, stub.gotVentaID)
}

func TestCrearAbono_MontoCero(t *testing.T) {
	r := abonosRouter(&stubAbonoService{})
	tok := signToken(t, uuid.New().String(), model.RolVendedor, time.Hour)

	w := doJSON(r, http.MethodPost, "/ventas/"+uuid.NewString()+"/abonos", map[string]interface{}{"monto": 0}, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Monto")
}

func TestCrearAbono_SinToken(t *testing.T) {
	r := abonosRouter(&stubAbonoService{})
	w := doJSON(r, http.MethodPost, "/ventas/"+uuid.NewString()+"/abonos", map[string]interface{}{"monto": 30}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLiquidarCliente(t *testing.T) {
	tok := signToken(t, uuid.New().String(), model.RolVendedor, time.Hour)
	clienteID := uuid.New()

	w := doJSON(abonosRouter(&stubAbonoService{}), http.MethodPost, "/clientes/"+clienteID.String()+"/liquidar", nil, tok)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.DistribucionAbonoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, clienteID.String(), resp.ClienteID)
	require.Len(t, resp.Aplicaciones, 1)
	assert.True(t, resp.Aplicaciones[0].VentaPagada)

	w = doJSON(abonosRouter(&stubAbonoService{err: service.ErrSinDeuda}), http.MethodPost, "/clientes/"+clienteID.String()+"/liquidar", nil, tok)
	assert.Equal(t, http.StatusConflict, w.Code)
}
