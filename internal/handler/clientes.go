package handler

import (
	"net/http"

	"fiadopos/internal/dto"
	"fiadopos/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct {
	svc    service.ClienteService
	ventas service.VentaService
}

func NewClientesHandler(svc service.ClienteService, ventas service.VentaService) *ClientesHandler {
	return &ClientesHandler{svc: svc, ventas: ventas}
}

// Crear godoc
// @Summary      Alta de cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearClienteRequest true "Datos del cliente"
// @Success      201  {object} dto.ClienteResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar clientes con su deuda
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        buscar         query string false "Nombre o telefono"
// @Param        solo_con_deuda query bool   false "Solo clientes con saldo"
// @Param        inactivos      query bool   false "Incluir desactivados"
// @Success      200  {array}  dto.ClienteResponse
// @Router       /v1/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.ClienteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Desactivar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EstadoCuenta godoc
// @Summary      Estado de cuenta del cliente
// @Description  Ventas fiadas abiertas con sus abonos y la deuda derivada del ledger.
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID del cliente"
// @Success      200  {object} dto.EstadoCuentaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clientes/{id}/estado-cuenta [get]
func (h *ClientesHandler) EstadoCuenta(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.EstadoCuenta(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ventas lists the sales of one customer; ?pendientes=true keeps only the
// open credit sales.
func (h *ClientesHandler) Ventas(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	ventas, err := h.ventas.ListarPorCliente(c.Request.Context(), id, c.Query("pendientes") == "true")
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromVentas(ventas))
}
