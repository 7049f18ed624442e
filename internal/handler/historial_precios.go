package handler

import (
	"net/http"

	"fiadopos/internal/dto"

	"github.com/gin-gonic/gin"
)

// HistorialPrecios godoc
// @Summary      Historial de precios de un producto
// @Description  Cambios de costo y precio de venta, del mas reciente al mas antiguo.
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     string true  "UUID del producto"
// @Param        page  query    int    false "Página (default 1)"
// @Param        limit query    int    false "Registros por página (default 50, max 200)"
// @Success      200   {object} dto.HistorialPrecioListResponse
// @Failure      400   {object} apierror.APIError
// @Failure      404   {object} apierror.APIError
// @Router       /v1/productos/{id}/historial-precios [get]
func (h *ProductosHandler) HistorialPrecios(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var pag dto.PaginaQuery
	if !bindQuery(c, &pag) {
		return
	}
	resp, err := h.svc.HistorialPrecios(c.Request.Context(), id, pag)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos godoc
// @Summary      Movimientos de stock de un producto
// @Description  Ventas, eliminaciones de venta y ajustes manuales con el stock antes y despues.
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     string true  "UUID del producto"
// @Param        page  query    int    false "Página (default 1)"
// @Param        limit query    int    false "Registros por página (default 50, max 200)"
// @Success      200   {object} dto.MovimientoStockListResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/productos/{id}/movimientos [get]
func (h *ProductosHandler) Movimientos(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var pag dto.PaginaQuery
	if !bindQuery(c, &pag) {
		return
	}
	resp, err := h.svc.MovimientosStock(c.Request.Context(), id, pag)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
