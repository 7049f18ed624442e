package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// enTransaccion runs fn inside a GORM transaction. Domain errors pass through
// unchanged; any other failure rolls back and surfaces as ErrTransaccion.
func enTransaccion(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil || esErrorDominio(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransaccion, err)
}
