package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestTraducirError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value"}

	assert.ErrorIs(t, traducirError(dup), ErrDuplicado)
	assert.ErrorIs(t, traducirError(fmt.Errorf("insert: %w", dup)), ErrDuplicado)

	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, fk, traducirError(fk))

	assert.NoError(t, traducirError(nil))
	other := errors.New("boom")
	assert.Equal(t, other, traducirError(other))
}

func TestClienteRepo_LockByIDTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClienteRepository(db)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "nombre", "limite_credito", "deuda_total", "activo"}).
		AddRow(id.String(), "Ana", "500.00", "120.00", true)
	mock.ExpectQuery(`SELECT \* FROM "clientes" WHERE id = \$1 .*FOR UPDATE`).WillReturnRows(rows)

	c, err := repo.LockByIDTx(db, id)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.True(t, c.DeudaTotal.Equal(decimal.NewFromInt(120)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClienteRepo_UpdateDeudaTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClienteRepository(db)

	mock.ExpectExec(`UPDATE "clientes" SET "deuda_total"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateDeudaTx(db, uuid.New(), decimal.RequireFromString("120"), time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClienteRepo_SoftDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClienteRepository(db)

	mock.ExpectExec(`UPDATE "clientes" SET "activo"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbonoRepo_SumaPorVentaTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAbonoRepository(db)

	rows := sqlmock.NewRows([]string{"monto"}).AddRow("30.00").AddRow("20.50").AddRow("0.10")
	mock.ExpectQuery(`SELECT "monto" FROM "abonos" WHERE venta_id = \$1`).WillReturnRows(rows)

	suma, err := repo.SumaPorVentaTx(db, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "50.60", suma.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbonoRepo_DeleteTxNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAbonoRepository(db)

	mock.ExpectExec(`DELETE FROM "abonos" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteTx(db, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
