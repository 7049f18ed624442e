package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunHandler_RecuperaPanic(t *testing.T) {
	err := runHandler(context.Background(), func(context.Context, json.RawMessage) error {
		panic("nil map")
	}, nil)
	assert.EqualError(t, err, "panic: nil map")
}

func TestPool_HandleNoDuplicaColas(t *testing.T) {
	p := NewPool(nil)
	noop := func(context.Context, json.RawMessage) error { return nil }
	p.Handle(QueueEmail, noop)
	p.Handle(QueueDeudas, noop)
	p.Handle(QueueEmail, noop)
	assert.Equal(t, []string{QueueEmail, QueueDeudas}, p.queues)
}
