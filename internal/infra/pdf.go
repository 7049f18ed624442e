package infra

// pdf.go: receipt generation with go-pdf/fpdf.
// Three documents share the same narrow thermal-paper layout:
//   - sale ticket (items, total, and for credit sales the balance)
//   - abono receipt (amount paid, balance before and after)
//   - customer account statement (open credit sales and derived debt)
// Files are written to storagePath and the absolute path is returned.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fiadopos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	anchoTicket  = 80.0
	margenTicket = 4.0
)

// documento wraps an fpdf page with the helpers every receipt uses.
type documento struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	contentW float64
}

func nuevoDocumento(alto float64) *documento {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: anchoTicket, Ht: alto},
	})
	pdf.SetMargins(margenTicket, margenTicket, margenTicket)
	pdf.SetAutoPageBreak(true, margenTicket)
	pdf.AddPage()
	return &documento{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""), // core fonts are cp1252
		contentW: anchoTicket - 2*margenTicket,
	}
}

func (d *documento) encabezado(negocio, titulo string, fecha time.Time) {
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.CellFormat(d.contentW, 7, d.tr(negocio), "", 1, "C", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.CellFormat(d.contentW, 5, d.tr(titulo), "", 1, "C", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 7)
	d.pdf.CellFormat(d.contentW, 4, fecha.Format("02/01/2006  15:04"), "", 1, "C", false, 0, "")
	d.separador()
}

func (d *documento) separador() {
	d.pdf.Ln(1)
	y := d.pdf.GetY()
	d.pdf.Line(margenTicket, y, anchoTicket-margenTicket, y)
	d.pdf.Ln(2)
}

func (d *documento) linea(etiqueta, valor string, negrita bool) {
	estilo := ""
	if negrita {
		estilo = "B"
	}
	d.pdf.SetFont("Helvetica", estilo, 8)
	d.pdf.CellFormat(d.contentW*0.6, 5, d.tr(etiqueta), "", 0, "L", false, 0, "")
	d.pdf.CellFormat(d.contentW*0.4, 5, d.tr(valor), "", 1, "R", false, 0, "")
}

func (d *documento) texto(s string) {
	d.pdf.SetFont("Helvetica", "", 7)
	d.pdf.MultiCell(d.contentW, 4, d.tr(s), "", "L", false)
}

func (d *documento) pie(s string) {
	d.pdf.Ln(3)
	d.pdf.SetFont("Helvetica", "I", 7)
	d.pdf.CellFormat(d.contentW, 4, d.tr(s), "", 1, "C", false, 0, "")
}

func (d *documento) guardar(storagePath, nombre string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(storagePath, nombre)
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}

func pesos(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}

// ── Ticket de venta ──────────────────────────────────────────────────────────

func GenerarTicketPDF(venta *model.Venta, negocio, storagePath string) (string, error) {
	d := nuevoDocumento(120 + float64(len(venta.Productos))*5)
	titulo := "Ticket de venta"
	if venta.EsFiado {
		titulo = "Ticket de venta fiada"
	}
	d.encabezado(negocio, titulo, venta.Fecha)
	if venta.ClienteNombre != nil {
		d.linea("Cliente:", *venta.ClienteNombre, false)
	}
	d.linea("Atendido por:", venta.UsuarioNombre, false)
	d.separador()

	col1, col2, col3 := d.contentW*0.52, d.contentW*0.16, d.contentW*0.32
	d.pdf.SetFont("Helvetica", "B", 7)
	d.pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	d.pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	d.pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 7)
	for _, it := range venta.Productos {
		d.pdf.CellFormat(col1, 5, d.tr(truncar(it.Nombre, 24)), "", 0, "L", false, 0, "")
		d.pdf.CellFormat(col2, 5, it.Cantidad.String(), "", 0, "C", false, 0, "")
		d.pdf.CellFormat(col3, 5, pesos(it.Subtotal), "", 1, "R", false, 0, "")
	}
	d.separador()

	d.linea("TOTAL:", pesos(venta.Total), true)
	if venta.EsFiado {
		d.linea("Abonado:", pesos(venta.Abonado), false)
		d.linea("Saldo pendiente:", pesos(venta.Resto), true)
	} else if venta.MetodoPago != nil {
		d.linea("Pago:", *venta.MetodoPago, false)
	}
	d.pie("¡Gracias por su compra!")
	return d.guardar(storagePath, fmt.Sprintf("ticket_%s.pdf", venta.ID))
}

// ── Recibo de abono ──────────────────────────────────────────────────────────

func GenerarReciboAbonoPDF(venta *model.Venta, abono *model.Abono, negocio, storagePath string) (string, error) {
	d := nuevoDocumento(110)
	d.encabezado(negocio, "Recibo de abono", abono.Fecha)
	if venta.ClienteNombre != nil {
		d.linea("Cliente:", *venta.ClienteNombre, false)
	}
	d.linea("Venta del:", venta.Fecha.Format("02/01/2006"), false)
	d.linea("Recibido por:", abono.UsuarioNombre, false)
	d.separador()

	d.linea("Total venta:", pesos(venta.Total), false)
	d.linea("Monto abonado:", pesos(abono.Monto), true)
	d.linea("Total abonado:", pesos(venta.Abonado), false)
	d.linea("Saldo pendiente:", pesos(venta.Resto), true)
	if abono.Notas != nil && *abono.Notas != "" {
		d.separador()
		d.texto(*abono.Notas)
	}
	if venta.PagadoCompletamente {
		d.pie("Venta cancelada en su totalidad")
	} else {
		d.pie("Conserve este recibo")
	}
	return d.guardar(storagePath, fmt.Sprintf("recibo_%s.pdf", abono.ID))
}

// ── Estado de cuenta ─────────────────────────────────────────────────────────

func GenerarEstadoCuentaPDF(cliente *model.Cliente, abiertas []model.Venta, deuda decimal.Decimal, negocio, storagePath string) (string, error) {
	alto := 100.0
	for _, v := range abiertas {
		alto += 12 + float64(len(v.Abonos))*4
	}
	d := nuevoDocumento(alto)
	d.encabezado(negocio, "Estado de cuenta", time.Now())
	d.linea("Cliente:", cliente.Nombre, true)
	if cliente.Telefono != nil {
		d.linea("Telefono:", *cliente.Telefono, false)
	}
	if cliente.LimiteCredito.IsPositive() {
		d.linea("Limite de credito:", pesos(cliente.LimiteCredito), false)
	}
	d.separador()

	if len(abiertas) == 0 {
		d.texto("Sin ventas pendientes.")
	}
	for _, v := range abiertas {
		d.linea(v.Fecha.Format("02/01/2006"), pesos(v.Total), true)
		for _, a := range v.Abonos {
			d.linea("  abono "+a.Fecha.Format("02/01"), "-"+pesos(a.Monto), false)
		}
		d.linea("  saldo", pesos(v.Resto), false)
	}
	d.separador()
	d.linea("DEUDA TOTAL:", pesos(deuda), true)
	return d.guardar(storagePath, fmt.Sprintf("estado_cuenta_%s.pdf", cliente.ID))
}
