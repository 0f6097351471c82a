package utils

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Circuit Breaker Tests

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("gateway")

	assert.Equal(t, "gateway", cb.Name())
	assert.Equal(t, uint32(100), cb.maxRequests)
	assert.Equal(t, 60*time.Second, cb.interval)
	assert.Equal(t, 60*time.Second, cb.timeout)
	assert.Equal(t, 0.6, cb.failureRatio)
	assert.Equal(t, StateClosed, cb.state)
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("gateway")
	ctx := context.Background()

	result, err := cb.Execute(ctx, func() (any, error) {
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, StateClosed, cb.state)
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
	assert.Equal(t, uint32(0), cb.counts.TotalFailures)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("gateway")
	ctx := context.Background()

	expectedError := errors.New("gateway unreachable")
	result, err := cb.Execute(ctx, func() (any, error) {
		return nil, expectedError
	})

	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
	assert.Nil(t, result)
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(0), cb.counts.TotalSuccesses)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
}

func TestCircuitBreaker_TripsOpenAfterFailureRatio(t *testing.T) {
	cb := NewCircuitBreaker("gateway")
	cb.maxRequests = 5
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		cb.Execute(ctx, func() (any, error) {
			return nil, errors.New("boom")
		})
	}

	assert.Equal(t, StateOpen, cb.state)

	_, err := cb.Execute(ctx, func() (any, error) {
		return "should not run", nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker("gateway")
	cb.maxRequests = 2
	cb.timeout = 10 * time.Millisecond
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cb.Execute(ctx, func() (any, error) {
			return nil, errors.New("boom")
		})
	}
	require.Equal(t, StateOpen, cb.state)

	time.Sleep(20 * time.Millisecond)

	result, err := cb.Execute(ctx, func() (any, error) {
		return "recovered", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, StateClosed, cb.State())
}

// Code Generator Tests

func TestCodeGenerator_Deterministic(t *testing.T) {
	gen := NewCodeGeneratorWithSource(bytes.NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7}))

	code, err := gen.Code(8)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGH", code)
}

func TestCodeGenerator_TicketNumber(t *testing.T) {
	gen := NewCodeGenerator()

	number, err := gen.TicketNumber()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(number, "TKT-"))
	assert.Len(t, number, 12)
}

func TestCodeGenerator_InviteCode(t *testing.T) {
	gen := NewCodeGenerator()

	code, err := gen.InviteCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestCodeGenerator_ExcludesAmbiguousCharacters(t *testing.T) {
	gen := NewCodeGenerator()

	for i := 0; i < 50; i++ {
		code, err := gen.Code(16)
		require.NoError(t, err)
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "1")
	}
}

func TestCodeGenerator_SourceExhausted(t *testing.T) {
	gen := NewCodeGeneratorWithSource(bytes.NewReader([]byte{1, 2}))

	_, err := gen.Code(8)
	assert.Error(t, err)
}
