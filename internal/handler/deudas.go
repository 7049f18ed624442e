package handler

import (
	"net/http"

	"fiadopos/internal/apierror"
	"fiadopos/internal/dto"
	"fiadopos/internal/service"
	"fiadopos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type DeudasHandler struct {
	svc        service.DeudaService
	dispatcher *worker.Dispatcher
}

func NewDeudasHandler(svc service.DeudaService, dispatcher *worker.Dispatcher) *DeudasHandler {
	return &DeudasHandler{svc: svc, dispatcher: dispatcher}
}

// DeudaReal godoc
// @Summary      Deuda real del cliente
// @Description  Suma del saldo de las ventas fiadas abiertas. No modifica el registro del cliente.
// @Tags         deudas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID del cliente"
// @Success      200  {object} dto.DeudaClienteResponse
// @Router       /v1/clientes/{id}/deuda [get]
func (h *DeudasHandler) DeudaReal(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	deuda, err := h.svc.CalcularDeudaReal(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeudaClienteResponse{ClienteID: id.String(), DeudaReal: deuda})
}

// SincronizarCliente godoc
// @Summary      Reconciliar la deuda registrada de un cliente
// @Tags         deudas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID del cliente"
// @Success      200  {object} dto.SincronizacionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clientes/{id}/sincronizar-deuda [post]
func (h *DeudasHandler) SincronizarCliente(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.SincronizarCliente(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SincronizacionResponse{
		ClienteID:     res.ClienteID.String(),
		Corregido:     res.Corregido,
		DeudaAnterior: res.DeudaAnterior,
		DeudaReal:     res.DeudaReal,
		Diferencia:    res.Diferencia,
	})
}

// SincronizarTodos godoc
// @Summary      Reconciliar la deuda de todos los clientes activos
// @Description  Con async=true el trabajo se encola en Redis y responde 202. Solo SuperAdmin.
// @Tags         deudas
// @Produce      json
// @Security     BearerAuth
// @Param        async query bool false "Encolar en lugar de ejecutar"
// @Success      200  {object} dto.ReporteSincronizacionResponse
// @Success      202  {object} dto.SincronizacionEncoladaResponse
// @Router       /v1/deudas/sincronizar [post]
func (h *DeudasHandler) SincronizarTodos(c *gin.Context) {
	if c.Query("async") == "true" {
		if h.dispatcher == nil {
			c.JSON(http.StatusServiceUnavailable, apierror.New("Cola de trabajos no disponible"))
			return
		}
		if err := h.dispatcher.EnqueueSincronizacion(c.Request.Context()); err != nil {
			log.Error().Err(err).Msg("deudas: no se pudo encolar la sincronizacion")
			c.JSON(http.StatusServiceUnavailable, apierror.New("Cola de trabajos no disponible"))
			return
		}
		c.JSON(http.StatusAccepted, dto.SincronizacionEncoladaResponse{Encolado: true, Cola: worker.QueueDeudas})
		return
	}

	rep, err := h.svc.SincronizarTodos(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	resp := dto.ReporteSincronizacionResponse{
		TotalClientes:      rep.TotalClientes,
		ClientesCorregidos: rep.ClientesCorregidos,
		Diferencias:        make([]dto.DiferenciaDeudaResponse, len(rep.Diferencias)),
	}
	for i, d := range rep.Diferencias {
		resp.Diferencias[i] = dto.DiferenciaDeudaResponse{
			ClienteID:     d.ClienteID.String(),
			Nombre:        d.Nombre,
			DeudaAnterior: d.DeudaAnterior,
			DeudaReal:     d.DeudaReal,
			Diferencia:    d.Diferencia,
		}
	}
	c.JSON(http.StatusOK, resp)
}
