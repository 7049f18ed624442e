package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tolerancia is the currency tolerance used to decide whether a balance is
// settled and whether a cached debt has drifted.
var Tolerancia = decimal.New(1, -2)

// EnCentavos reports whether m fits the decimal(12,2) money columns without rounding.
func EnCentavos(m decimal.Decimal) bool {
	return m.Equal(m.Round(2))
}

// asignarID fills an empty primary key on insert. Keys are generated in Go
// so the schema does not depend on gen_random_uuid().
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
