package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNoEncontrado     = errors.New("no encontrado")
	ErrMontoInvalido    = errors.New("el monto debe ser mayor a cero")
	ErrSobrepago        = errors.New("el monto excede el saldo pendiente")
	ErrTransaccion      = errors.New("error de transaccion")
	ErrVentaNoFiada     = errors.New("la venta no es fiada")
	ErrClienteRequerido = errors.New("una venta fiada requiere cliente")
	ErrLimiteCredito    = errors.New("el cliente supera su limite de credito")
	ErrSinDeuda         = errors.New("el cliente no tiene deuda pendiente")
	ErrCredenciales     = errors.New("credenciales invalidas")
	ErrPermisos         = errors.New("permisos insuficientes")
	ErrUltimoAdmin      = errors.New("no se puede desactivar al ultimo SuperAdmin activo")
	ErrDuplicado        = errors.New("ya existe un registro con ese valor")
)

var erroresDominio = []error{
	ErrNoEncontrado, ErrMontoInvalido, ErrSobrepago, ErrVentaNoFiada,
	ErrClienteRequerido, ErrLimiteCredito, ErrSinDeuda, ErrCredenciales,
	ErrPermisos, ErrUltimoAdmin, ErrDuplicado, ErrTransaccion,
}

func esErrorDominio(err error) bool {
	for _, e := range erroresDominio {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// noEncontrado maps gorm.ErrRecordNotFound to ErrNoEncontrado, naming the entity.
func noEncontrado(err error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entidad, ErrNoEncontrado)
	}
	return err
}
