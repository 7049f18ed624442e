package handler

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"fiadopos/internal/apierror"
	"fiadopos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Generador renders a document synchronously. *worker.ComprobanteWorker
// satisfies it.
type Generador interface {
	Generar(ctx context.Context, payload worker.ComprobanteJobPayload) (string, string, error)
}

type ComprobantesHandler struct {
	gen        Generador
	dispatcher *worker.Dispatcher
}

func NewComprobantesHandler(gen Generador, dispatcher *worker.Dispatcher) *ComprobantesHandler {
	return &ComprobantesHandler{gen: gen, dispatcher: dispatcher}
}

// Ticket godoc
// @Summary      Descargar ticket de venta (PDF)
// @Tags         comprobantes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path string true "UUID de la venta"
// @Success      200  {file} file
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id}/ticket [get]
func (h *ComprobantesHandler) Ticket(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	h.descargar(c, worker.ComprobanteJobPayload{Tipo: worker.ComprobanteTicket, VentaID: id.String()})
}

// Recibo godoc
// @Summary      Descargar recibo de un abono (PDF)
// @Tags         comprobantes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id       path string true "UUID de la venta"
// @Param        abono_id path string true "UUID del abono"
// @Success      200  {file} file
// @Router       /v1/ventas/{id}/abonos/{abono_id}/recibo [get]
func (h *ComprobantesHandler) Recibo(c *gin.Context) {
	ventaID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	abonoID, ok := paramUUID(c, "abono_id")
	if !ok {
		return
	}
	h.descargar(c, worker.ComprobanteJobPayload{
		Tipo:    worker.ComprobanteReciboAbono,
		VentaID: ventaID.String(),
		AbonoID: abonoID.String(),
	})
}

// EstadoCuenta godoc
// @Summary      Descargar estado de cuenta (PDF)
// @Tags         comprobantes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path string true "UUID del cliente"
// @Success      200  {file} file
// @Router       /v1/clientes/{id}/estado-cuenta/pdf [get]
func (h *ComprobantesHandler) EstadoCuenta(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	h.descargar(c, worker.ComprobanteJobPayload{Tipo: worker.ComprobanteEstadoCuenta, ClienteID: id.String()})
}

type enviarEstadoCuentaRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// EnviarEstadoCuenta godoc
// @Summary      Enviar estado de cuenta por email
// @Description  Encola la generacion del PDF y su envio.
// @Tags         comprobantes
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string true "UUID del cliente"
// @Success      202
// @Router       /v1/clientes/{id}/estado-cuenta/enviar [post]
func (h *ComprobantesHandler) EnviarEstadoCuenta(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req enviarEstadoCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if h.dispatcher == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Cola de trabajos no disponible"))
		return
	}
	err := h.dispatcher.EnqueueComprobante(c.Request.Context(), worker.ComprobanteJobPayload{
		Tipo:         worker.ComprobanteEstadoCuenta,
		ClienteID:    id.String(),
		ClienteEmail: &req.Email,
	})
	if err != nil {
		log.Error().Err(err).Str("cliente_id", id.String()).Msg("comprobantes: no se pudo encolar")
		c.JSON(http.StatusServiceUnavailable, apierror.New("Cola de trabajos no disponible"))
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ComprobantesHandler) descargar(c *gin.Context, payload worker.ComprobanteJobPayload) {
	path, _, err := h.gen.Generar(c.Request.Context(), payload)
	if errors.Is(err, worker.ErrPayload) {
		c.JSON(http.StatusNotFound, apierror.New("Comprobante no encontrado"))
		return
	}
	if err != nil {
		responderError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
