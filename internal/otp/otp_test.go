package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Range(t *testing.T) {
	codec := NewBcryptCodec(MinCost)

	for range 200 {
		code, err := codec.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	codec := NewBcryptCodec(MinCost)

	code, err := codec.Generate()
	require.NoError(t, err)

	hash, err := codec.Hash(code)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, code, hash)

	assert.True(t, codec.Verify(code, hash))
}

func TestVerify_WrongCode(t *testing.T) {
	codec := NewBcryptCodec(MinCost)

	hash, err := codec.Hash("123456")
	require.NoError(t, err)

	assert.False(t, codec.Verify("654321", hash))
	assert.False(t, codec.Verify("000000", hash))
	assert.False(t, codec.Verify("", hash))
}

func TestVerify_MalformedHash(t *testing.T) {
	codec := NewBcryptCodec(MinCost)

	assert.False(t, codec.Verify("123456", ""))
	assert.False(t, codec.Verify("123456", "not-a-bcrypt-hash"))
}

func TestNewBcryptCodec_RaisesLowCost(t *testing.T) {
	codec := NewBcryptCodec(4)
	assert.Equal(t, MinCost, codec.cost)
}
