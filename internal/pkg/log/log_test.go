package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestFormatLog(t *testing.T) {
	assert.Equal(t, "[req_id=r1] hello 42", formatLog("r1", "hello %d", 42))
	assert.Equal(t, "hello", formatLog("", "hello"))
}

func TestSetDebug(t *testing.T) {
	SetDebug(true)
	assert.True(t, DebugEnabled())
	Debug("visible %s", "line")

	SetDebug(false)
	assert.False(t, DebugEnabled())
	Debug("suppressed")
	DebugStruct(struct{ A int }{A: 1})
}
