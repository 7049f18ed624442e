package handler

import (
	"net/http"

	"fiadopos/internal/dto"
	"fiadopos/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// CrearVenta godoc
// @Summary      Registrar una venta
// @Description  Venta al contado o fiada. Una venta fiada requiere cliente; el abono inicial se registra como abono.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) CrearVenta(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id, ok := identidad(c)
	if !ok {
		return
	}
	venta, err := h.svc.CrearVenta(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromVenta(venta))
}

// ObtenerVenta godoc
// @Summary      Obtener venta con sus abonos
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      200  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	ventaID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	venta, err := h.svc.ObtenerVenta(c.Request.Context(), ventaID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromVenta(venta))
}

// EliminarVenta godoc
// @Summary      Eliminar venta
// @Description  Borra la venta y sus abonos, restaura stock y resincroniza la deuda del cliente. Solo SuperAdmin.
// @Tags         ventas
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) EliminarVenta(c *gin.Context) {
	ventaID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarVenta(c.Request.Context(), ventaID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha      query string false "Fecha YYYY-MM-DD"
// @Param        tipo       query string false "contado | fiado | all"
// @Param        estado     query string false "pendiente | pagada | all"
// @Param        cliente_id query string false "UUID del cliente"
// @Param        page       query int    false "Página (default 1)"
// @Param        limit      query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	ventas, total, err := h.svc.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VentaListResponse{
		Data:  dto.FromVentas(ventas),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// ListarPendientes godoc
// @Summary      Ventas fiadas con saldo pendiente
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.VentaResponse
// @Router       /v1/ventas/pendientes [get]
func (h *VentasHandler) ListarPendientes(c *gin.Context) {
	ventas, err := h.svc.ListarPendientes(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromVentas(ventas))
}
