package repository

import (
	"context"

	"fiadopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AbonoRepository is the payment ledger. Rows are inserted and deleted, never
// updated.
type AbonoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Abono, error)
	ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.Abono, error)

	CreateTx(tx *gorm.DB, a *model.Abono) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeleteByVentaTx(tx *gorm.DB, ventaID uuid.UUID) error
	// SumaPorVentaTx returns Σ monto over the sale's abonos.
	SumaPorVentaTx(tx *gorm.DB, ventaID uuid.UUID) (decimal.Decimal, error)

	DB() *gorm.DB
}

type abonoRepo struct{ db *gorm.DB }

func NewAbonoRepository(db *gorm.DB) AbonoRepository { return &abonoRepo{db: db} }

func (r *abonoRepo) DB() *gorm.DB { return r.db }

func (r *abonoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Abono, error) {
	var a model.Abono
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *abonoRepo) ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.Abono, error) {
	var abonos []model.Abono
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).
		Order("fecha ASC, created_at ASC").Find(&abonos).Error
	return abonos, err
}

func (r *abonoRepo) CreateTx(tx *gorm.DB, a *model.Abono) error {
	return tx.Create(a).Error
}

func (r *abonoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Where("id = ?", id).Delete(&model.Abono{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *abonoRepo) DeleteByVentaTx(tx *gorm.DB, ventaID uuid.UUID) error {
	return tx.Where("venta_id = ?", ventaID).Delete(&model.Abono{}).Error
}

// Summed in Go so the result is exact regardless of how the driver returns
// NUMERIC aggregates.
func (r *abonoRepo) SumaPorVentaTx(tx *gorm.DB, ventaID uuid.UUID) (decimal.Decimal, error) {
	var montos []decimal.Decimal
	err := tx.Model(&model.Abono{}).Where("venta_id = ?", ventaID).Pluck("monto", &montos).Error
	if err != nil {
		return decimal.Zero, err
	}
	suma := decimal.Zero
	for _, m := range montos {
		suma = suma.Add(m)
	}
	return suma, nil
}
