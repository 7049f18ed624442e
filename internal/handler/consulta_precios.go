package handler

import (
	"net/http"

	"fiadopos/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler serves the public price check. It has no side
// effects and needs no token.
type ConsultaPreciosHandler struct {
	svc service.ProductoService
}

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// PrecioPorCodigo godoc
// @Summary  Consulta de precio por codigo de barras (sin autenticacion)
// @Tags     precio
// @Produce  json
// @Param    codigo path     string true "Codigo de barras"
// @Success  200    {object} dto.ConsultaPrecioResponse
// @Failure  404    {object} apierror.APIError
// @Router   /v1/precio/{codigo} [get]
func (h *ConsultaPreciosHandler) PrecioPorCodigo(c *gin.Context) {
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
