package mq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	b, err := Encode(map[string]any{"booking_id": "bk-1"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"booking_id":"bk-1"}`, string(b))
}

func TestNop_ReportsEncodingErrors(t *testing.T) {
	var p Nop

	assert.NoError(t, p.PublishJSON(context.Background(), KeyBookingCreated, map[string]string{"a": "b"}))
	assert.Error(t, p.PublishJSON(context.Background(), KeyBookingCreated, make(chan int)))
	assert.NoError(t, p.Close())
}
