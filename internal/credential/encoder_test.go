package credential

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func TestEncode_Deterministic(t *testing.T) {
	payload := Payload{
		InstitutionID: id.InstitutionID(uuid.New()),
		StudentID:     id.StudentID(uuid.New()),
		DeviceID:      "TAB-0042",
	}

	first, err := Encode(payload)
	require.NoError(t, err)
	second, err := Encode(payload)
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical payloads must yield byte-identical tokens")
}

func TestEncode_DistinctInputsDistinctTokens(t *testing.T) {
	institutionID := id.InstitutionID(uuid.New())
	base := Payload{InstitutionID: institutionID, StudentID: id.StudentID(uuid.New())}
	other := Payload{InstitutionID: institutionID, StudentID: id.StudentID(uuid.New())}

	tokenA, err := Encode(base)
	require.NoError(t, err)
	tokenB, err := Encode(other)
	require.NoError(t, err)
	assert.NotEqual(t, tokenA, tokenB)

	withDevice := base
	withDevice.DeviceID = "TAB-0042"
	tokenC, err := Encode(withDevice)
	require.NoError(t, err)
	assert.NotEqual(t, tokenA, tokenC)
}

func TestEncode_PrintableAlphabet(t *testing.T) {
	token, err := Encode(Payload{
		InstitutionID: id.InstitutionID(uuid.New()),
		StudentID:     id.StudentID(uuid.New()),
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	for _, r := range token {
		assert.True(t, strings.ContainsRune(base58Alphabet, r), "unexpected rune %q", r)
	}
}

func TestEncode_InvalidPayload(t *testing.T) {
	t.Run("missing institution id", func(t *testing.T) {
		_, err := Encode(Payload{StudentID: id.StudentID(uuid.New())})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("missing student id", func(t *testing.T) {
		_, err := Encode(Payload{InstitutionID: id.InstitutionID(uuid.New())})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
