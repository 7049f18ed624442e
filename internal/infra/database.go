package infra

import (
	"fmt"

	"fiadopos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, migrates the
// ledger tables and applies the idempotent PostgreSQL patches that GORM tags
// cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables. Schema patches only run on
// PostgreSQL; the sqlite databases used in tests get the plain tables.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Producto{},
		&model.Venta{},
		&model.Abono{},
		&model.MovimientoStock{},
		&model.HistorialPrecio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot express
// (partial indexes, CHECK constraints). Re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// deuda real and FIFO distribution scan exactly this subset
		{"partial index on open credit sales", `
CREATE INDEX IF NOT EXISTS idx_ventas_fiadas_pendientes
    ON ventas (cliente_id, fecha)
    WHERE es_fiado = true AND pagado_completamente = false`},
		{"abonos.monto > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_abonos_monto_positivo') THEN
    ALTER TABLE abonos ADD CONSTRAINT chk_abonos_monto_positivo CHECK (monto > 0);
  END IF;
END $$`},
		{"ventas.total >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ventas_total_no_negativo') THEN
    ALTER TABLE ventas ADD CONSTRAINT chk_ventas_total_no_negativo CHECK (total >= 0);
  END IF;
END $$`},
		{"clientes nombre search index", `
CREATE INDEX IF NOT EXISTS idx_clientes_nombre_lower ON clientes (LOWER(nombre))`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
