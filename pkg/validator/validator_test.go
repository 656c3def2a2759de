package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Handle   string `validate:"required"`
	Quantity int    `validate:"required,gte=1"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Handle: "neon-drip-tee", Quantity: 2}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Quantity: 1}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Handle")
	assert.Equal(t, "is required", fields["Handle"])
}

func TestValidate_OutOfRange(t *testing.T) {
	type capped struct {
		Quantity int `validate:"gte=1,lte=100"`
	}
	s := capped{Quantity: 200}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Quantity")
	assert.Contains(t, fields["Quantity"], "100")
}

func TestValidate_MultipleErrors(t *testing.T) {
	s := testStruct{} // missing Handle and Quantity
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Handle")
	assert.Contains(t, fields, "Quantity")
}

func TestValidationError_ErrorString(t *testing.T) {
	s := testStruct{}
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Handle'")
	assert.Contains(t, err.Error(), "is required")
}

type minMaxStruct struct {
	Short string `validate:"min=3"`
	Long  string `validate:"max=5"`
}

func TestValidate_MinMax(t *testing.T) {
	s := minMaxStruct{Short: "ab", Long: "toolongstring"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["Short"], "at least 3")
	assert.Contains(t, fields["Long"], "at most 5")
}

type oneofStruct struct {
	Backend string `validate:"oneof=static commerce"`
}

func TestValidate_OneOf(t *testing.T) {
	s := oneofStruct{Backend: "filesystem"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["Backend"], "one of")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"Handle":"stencil-cap","Quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.NoError(t, err)
	assert.Equal(t, "stencil-cap", s.Handle)
	assert.Equal(t, 3, s.Quantity)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"Handle":"","Quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
