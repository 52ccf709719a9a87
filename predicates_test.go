package paf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesOnKnownKinds(t *testing.T) {
	assert.True(t, IsNumeric(KindInt))
	assert.True(t, IsNumeric(KindFloat))
	assert.True(t, IsNumeric(KindBool))
	assert.False(t, IsNumericNotBool(KindBool))
	assert.True(t, IsString(KindString))
	assert.True(t, IsString(KindCategorical))
	assert.True(t, IsTemporal(KindTemporal))
	assert.True(t, IsBoolean(KindBool))
}

func TestPredicatesNeverThrowOnUnknownDtype(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.False(t, IsNumeric("not a kind"))
		assert.False(t, IsString(42))
		assert.False(t, IsTemporal(nil))
	})
}

func TestAnyOfAndNot(t *testing.T) {
	numericOrString := AnyOf(IsNumeric, IsString)
	assert.True(t, numericOrString(KindInt))
	assert.True(t, numericOrString(KindString))
	assert.False(t, numericOrString(KindTemporal))

	notNumeric := Not(IsNumeric)
	assert.False(t, notNumeric(KindInt))
	assert.True(t, notNumeric(KindString))
}
