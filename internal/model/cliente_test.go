package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPuedeFiar(t *testing.T) {
	sinLimite := &Cliente{}
	assert.True(t, sinLimite.PuedeFiar(d("100000"), d("1")))

	c := &Cliente{LimiteCredito: d("100")}
	assert.True(t, c.PuedeFiar(d("80"), d("20")))
	assert.False(t, c.PuedeFiar(d("80"), d("20.01")))
}

func TestTieneDeuda(t *testing.T) {
	assert.False(t, (&Cliente{DeudaTotal: d("0.01")}).TieneDeuda())
	assert.True(t, (&Cliente{DeudaTotal: d("0.02")}).TieneDeuda())
}
