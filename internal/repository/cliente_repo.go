package repository

import (
	"context"
	"strings"
	"time"

	"fiadopos/internal/dto"
	"fiadopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions: callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	ListActivosTx(tx *gorm.DB) ([]model.Cliente, error)
	UpdateDeudaTx(tx *gorm.DB, id uuid.UUID, deuda decimal.Decimal, ahora time.Time) error

	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *clienteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error) {
	var clientes []model.Cliente
	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if !filter.Inactivos {
		q = q.Where("activo = ?", true)
	}
	if b := strings.TrimSpace(filter.Buscar); b != "" {
		like := "%" + strings.ToLower(b) + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR LOWER(COALESCE(telefono, '')) LIKE ?", like, like)
	}
	err := q.Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) ListActivosTx(tx *gorm.DB) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := tx.Where("activo = ?", true).Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

// Update never writes deuda_total; see UpdateDeudaTx.
func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Omit("deuda_total").Save(c).Error
}

// UpdateDeudaTx overwrites the cached debt. It is the only writer of deuda_total.
func (r *clienteRepo) UpdateDeudaTx(tx *gorm.DB, id uuid.UUID, deuda decimal.Decimal, ahora time.Time) error {
	return tx.Model(&model.Cliente{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"deuda_total": deuda,
		"updated_at":  ahora,
	}).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
