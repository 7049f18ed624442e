package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolSuperAdmin = "SuperAdmin"
	RolVendedor   = "Vendedor"
)

// Usuario stores system users with role-based access.
// Rol: "SuperAdmin" | "Vendedor"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Nombre       string    `gorm:"type:varchar(100);not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);index;not null"`
	Activo       bool      `gorm:"not null;default:true;index"`
	UltimoAcceso *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(_ *gorm.DB) error {
	asignarID(&u.ID)
	return nil
}

func (u *Usuario) EsSuperAdmin() bool { return u.Rol == RolSuperAdmin }
