package condition

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyntaxError_MessageShape(t *testing.T) {
	err := NewSyntaxError(7, "value", ";")
	assert.Equal(t, "line 0, col 7: Error: Expected 'value', got ';'", err.Error())
	assert.Equal(t, KindSyntaxError, err.Kind)
}

func TestError_UnwrapExposesGoError(t *testing.T) {
	err := NewUnknownFieldError("nope")

	var ge *goerrors.Error
	require.ErrorAs(t, err, &ge)
	assert.NotNil(t, ge)
	assert.Same(t, err.GoError(), ge)
}

func TestValuesError_Error(t *testing.T) {
	err := &ValuesError{Pass: "validate", Field: "field1", Message: "bad pattern"}
	assert.Equal(t, `validate: field "field1": bad pattern`, err.Error())
}
