package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/slafeed/internal/log"
)

func TestCtxValues(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	assert.Equal(log.Kv{}, log.ValuesFromCtx(ctx))

	ctx1 := log.CtxWithValues(ctx, log.Kv{"a": 1, "b": 2})
	ctx2 := log.CtxWithValues(ctx1, log.Kv{"b": 3, "c": 4})

	assert.Equal(log.Kv{"a": 1, "b": 2}, log.ValuesFromCtx(ctx1))
	assert.Equal(log.Kv{"a": 1, "b": 3, "c": 4}, log.ValuesFromCtx(ctx2))
}
