package handler

import (
	"net/http"

	"fiadopos/internal/dto"
	"fiadopos/internal/service"

	"github.com/gin-gonic/gin"
)

type AbonosHandler struct{ svc service.AbonoService }

func NewAbonosHandler(svc service.AbonoService) *AbonosHandler { return &AbonosHandler{svc: svc} }

// CrearAbono godoc
// @Summary      Registrar abono a una venta fiada
// @Tags         abonos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                true "UUID de la venta"
// @Param        body body     dto.CrearAbonoRequest true "Monto y notas"
// @Success      201  {object} dto.AbonoResponse
// @Failure      409  {object} apierror.APIError "monto mayor al saldo"
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas/{id}/abonos [post]
func (h *AbonosHandler) CrearAbono(c *gin.Context) {
	ventaID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearAbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id, ok := identidad(c)
	if !ok {
		return
	}
	abono, err := h.svc.CrearAbono(c.Request.Context(), id, ventaID, req.Monto, req.Notas)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromAbono(abono))
}

// ListarAbonos godoc
// @Summary      Abonos de una venta en orden cronologico
// @Tags         abonos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      200  {array}  dto.AbonoResponse
// @Router       /v1/ventas/{id}/abonos [get]
func (h *AbonosHandler) ListarAbonos(c *gin.Context) {
	ventaID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	abonos, err := h.svc.ListarAbonos(c.Request.Context(), ventaID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAbonos(abonos))
}

// EliminarAbono godoc
// @Summary      Revertir un abono
// @Description  Borra el abono y recalcula la venta; puede reabrirla. Solo SuperAdmin.
// @Tags         abonos
// @Security     BearerAuth
// @Param        id   path     string true "UUID del abono"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/abonos/{id} [delete]
func (h *AbonosHandler) EliminarAbono(c *gin.Context) {
	abonoID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarAbono(c.Request.Context(), abonoID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AbonarCliente godoc
// @Summary      Abono a cuenta del cliente
// @Description  Distribuye el monto entre las ventas fiadas pendientes, la mas antigua primero.
// @Tags         abonos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                   true "UUID del cliente"
// @Param        body body     dto.AbonarClienteRequest true "Monto"
// @Success      201  {object} dto.DistribucionAbonoResponse
// @Router       /v1/clientes/{id}/abonos [post]
func (h *AbonosHandler) AbonarCliente(c *gin.Context) {
	clienteID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AbonarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id, ok := identidad(c)
	if !ok {
		return
	}
	dist, err := h.svc.AbonarCliente(c.Request.Context(), id, clienteID, req.Monto, req.Notas)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, distribucionResponse(dist))
}

// LiquidarCliente godoc
// @Summary      Liquidar toda la deuda del cliente
// @Tags         abonos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID del cliente"
// @Success      201  {object} dto.DistribucionAbonoResponse
// @Failure      409  {object} apierror.APIError "sin deuda"
// @Router       /v1/clientes/{id}/liquidar [post]
func (h *AbonosHandler) LiquidarCliente(c *gin.Context) {
	clienteID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	id, ok := identidad(c)
	if !ok {
		return
	}
	dist, err := h.svc.LiquidarCliente(c.Request.Context(), id, clienteID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, distribucionResponse(dist))
}

func distribucionResponse(d *service.DistribucionAbono) dto.DistribucionAbonoResponse {
	resp := dto.DistribucionAbonoResponse{
		ClienteID:     d.ClienteID.String(),
		MontoTotal:    d.MontoTotal,
		Aplicaciones:  make([]dto.AplicacionAbonoResponse, len(d.Aplicaciones)),
		DeudaRestante: d.DeudaRestante,
	}
	for i, a := range d.Aplicaciones {
		resp.Aplicaciones[i] = dto.AplicacionAbonoResponse{
			VentaID:     a.VentaID.String(),
			AbonoID:     a.AbonoID.String(),
			Monto:       a.Monto,
			RestoPrevio: a.RestoPrevio,
			RestoActual: a.RestoActual,
			VentaPagada: a.VentaPagada,
		}
	}
	return resp
}
