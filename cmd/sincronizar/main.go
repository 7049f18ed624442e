// cmd/sincronizar: mantenimiento de deudas de clientes.
//
//	go run ./cmd/sincronizar          # pide confirmacion
//	go run ./cmd/sincronizar --yes
//	go run ./cmd/sincronizar dlq --queue jobs:email --limite 50
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fiadopos/internal/config"
	"fiadopos/internal/infra"
	"fiadopos/internal/repository"
	"fiadopos/internal/service"
	"fiadopos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const separador = "======================================================================"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "ERROR durante la sincronizacion: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sincronizar",
		Short: "Recalcula la deuda de todos los clientes desde sus ventas pendientes",
		Long: `Recalcula la deuda registrada de cada cliente activo sumando el saldo de sus
ventas fiadas pendientes y corrige las que no coinciden. Toda la pasada corre
en una sola transaccion: si algo falla, no se modifica ningun cliente.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSincronizar,
	}
	root.Flags().BoolP("yes", "y", false, "No pedir confirmacion")
	root.AddCommand(newDLQCmd())
	return root
}

func runSincronizar(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	yes, _ := cmd.Flags().GetBool("yes")

	fmt.Fprintln(out, separador)
	fmt.Fprintln(out, "SINCRONIZACION DE DEUDAS DE CLIENTES")
	fmt.Fprintln(out, separador)
	fmt.Fprintln(out)

	if !yes && !confirmar(cmd.InOrStdin(), out) {
		fmt.Fprintln(out, "Operacion cancelada.")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("base de datos: %w", err)
	}

	deuda := service.NewDeudaService(repository.NewClienteRepository(db), repository.NewVentaRepository(db))
	fmt.Fprintln(out, "Sincronizando...")
	rep, err := deuda.SincronizarTodos(cmd.Context())
	if err != nil {
		return err
	}
	imprimirReporte(out, rep)
	return nil
}

// confirmar asks for an explicit "s"; anything else cancels.
func confirmar(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "¿Deseas continuar? (s/n): ")
	linea, _ := bufio.NewReader(in).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(linea), "s")
}

func imprimirReporte(out io.Writer, rep *service.ReporteSincronizacion) {
	fmt.Fprintln(out, separador)
	fmt.Fprintln(out, "SINCRONIZACION COMPLETADA")
	fmt.Fprintln(out, separador)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total de clientes: %d\n", rep.TotalClientes)
	fmt.Fprintf(out, "Clientes corregidos: %d\n", rep.ClientesCorregidos)
	fmt.Fprintln(out)

	if len(rep.Diferencias) == 0 {
		fmt.Fprintln(out, "Todas las deudas estaban correctas. No se realizaron cambios.")
		return
	}

	fmt.Fprintln(out, "Detalles de las correcciones:")
	fmt.Fprintln(out, strings.Repeat("-", len(separador)))
	for _, d := range rep.Diferencias {
		fmt.Fprintf(out, "\nCliente: %s (ID: %s)\n", d.Nombre, d.ClienteID)
		fmt.Fprintf(out, "  Deuda en BD:   $%s\n", d.DeudaAnterior.StringFixed(2))
		fmt.Fprintf(out, "  Deuda real:    $%s\n", d.DeudaReal.StringFixed(2))
		fmt.Fprintf(out, "  Diferencia:    %s\n", conSigno(d.Diferencia))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("-", len(separador)))
}

func conSigno(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+$" + d.StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// ── dlq ──────────────────────────────────────────────────────────────────────

func newDLQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Reencola trabajos fallidos de una dead letter queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			queue, _ := cmd.Flags().GetString("queue")
			limite, _ := cmd.Flags().GetInt("limite")
			if limite <= 0 {
				return fmt.Errorf("--limite debe ser positivo")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			rdb, err := infra.NewRedis(cmd.Context(), cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer rdb.Close()

			pendientes, err := worker.DLQLength(cmd.Context(), rdb, queue)
			if err != nil {
				return err
			}
			movidos, err := worker.ReplayDLQ(cmd.Context(), rdb, queue, limite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d en DLQ, %d reencolados\n", queue, pendientes, movidos)
			return nil
		},
	}
	cmd.Flags().String("queue", worker.QueueEmail, "Cola original")
	cmd.Flags().Int("limite", 100, "Maximo de trabajos a reencolar")
	return cmd
}
