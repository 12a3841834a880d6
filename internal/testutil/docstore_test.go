package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsers_Contract(t *testing.T) {
	users := NewMemoryUsers("u1")

	UserIndexContract(t, users, "u1")
}

func TestMemoryUsers_LinkErr(t *testing.T) {
	users := NewMemoryUsers("u1")
	users.LinkErr = assert.AnError

	require.ErrorIs(t, users.LinkPrediction(context.Background(), "u1", "rec-1"), assert.AnError)
	assert.Empty(t, users.Collection("u1"))
}
