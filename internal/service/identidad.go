package service

import (
	"fiadopos/internal/model"

	"github.com/google/uuid"
)

// Identidad is the acting user stamped on every ledger mutation.
type Identidad struct {
	UsuarioID uuid.UUID
	Nombre    string
	Rol       string
}

func (i Identidad) EsSuperAdmin() bool { return i.Rol == model.RolSuperAdmin }

func (i Identidad) validar() error {
	if i.UsuarioID == uuid.Nil || i.Nombre == "" {
		return ErrPermisos
	}
	return nil
}
