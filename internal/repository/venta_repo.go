package repository

import (
	"context"

	"fiadopos/internal/dto"
	"fiadopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID, soloPendientes bool) ([]model.Venta, error)
	ListPendientes(ctx context.Context) ([]model.Venta, error)

	// Used inside transactions: callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	UpdateTotalesTx(tx *gorm.DB, v *model.Venta) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// ListPendientesClienteTx returns the open credit sales of a customer,
	// oldest first.
	ListPendientesClienteTx(tx *gorm.DB, clienteID uuid.UUID) ([]model.Venta, error)

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func preloadAbonos(db *gorm.DB) *gorm.DB {
	return db.Order("fecha ASC, created_at ASC")
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Abonos", preloadAbonos).Where("id = ?", id).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := tx.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// LockByIDTx reads the sale with SELECT ... FOR UPDATE so concurrent payment
// writers serialize on the row while totals are recomputed.
func (r *ventaRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) UpdateTotalesTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Model(&model.Venta{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"abonado":              v.Abonado,
		"resto":                v.Resto,
		"pagado_completamente": v.PagadoCompletamente,
		"fecha_pago_completo":  v.FechaPagoCompleto,
	}).Error
}

func (r *ventaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Where("id = ?", id).Delete(&model.Venta{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	switch filter.Tipo {
	case "contado":
		q = q.Where("es_fiado = ?", false)
	case "fiado":
		q = q.Where("es_fiado = ?", true)
	}
	switch filter.Estado {
	case "pendiente":
		q = q.Where("es_fiado = ? AND pagado_completamente = ?", true, false)
	case "pagada":
		q = q.Where("pagado_completamente = ?", true)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("fecha DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID, soloPendientes bool) ([]model.Venta, error) {
	var ventas []model.Venta
	q := r.db.WithContext(ctx).Preload("Abonos", preloadAbonos).Where("cliente_id = ?", clienteID)
	if soloPendientes {
		q = q.Where("es_fiado = ? AND pagado_completamente = ?", true, false)
	}
	err := q.Order("fecha DESC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListPendientes(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("es_fiado = ? AND pagado_completamente = ?", true, false).
		Order("fecha DESC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListPendientesClienteTx(tx *gorm.DB, clienteID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := tx.Where("cliente_id = ? AND es_fiado = ? AND pagado_completamente = ?", clienteID, true, false).
		Order("fecha ASC, created_at ASC").Find(&ventas).Error
	return ventas, err
}
