package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string `json:"name"     validate:"required,max=5"`
	Email    string `json:"email"    validate:"required,email"`
	Quantity *int   `json:"quantity" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		anyErr  bool
	}{
		{name: "valid json", body: `{"name":"milk","quantity":2}`},
		{name: "trailing comma", body: `{"name":"milk",}`, anyErr: true},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "two values", body: `{"name":"a"} {"name":"b"}`, anyErr: true},
		{name: "wrong type", body: `{"quantity":"two"}`, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst sampleRequest

			err := DecodeJSON(req, &dst)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "milk", dst.Name)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	zero := 0
	err := ValidateRequest(sampleRequest{Name: "too long", Email: "nope", Quantity: &zero})
	require.Error(t, err)

	details := ValidationDetails(err)
	assert.Equal(t, map[string]string{
		"name":  "Ensure this field has no more than 5 characters",
		"email": "Enter a valid email address",
	}, details, "a present zero quantity satisfies required")

	err = ValidateRequest(sampleRequest{})
	details = ValidationDetails(err)
	assert.Equal(t, "This field is required", details["name"])
	assert.Equal(t, "This field is required", details["quantity"])

	assert.Nil(t, ValidationDetails(assert.AnError))
}

type selfValidating struct{ called bool }

func (s *selfValidating) Validate() error {
	s.called = true
	return nil
}

func TestValidateRequest_UsesValidateMethod(t *testing.T) {
	v := &selfValidating{}
	require.NoError(t, ValidateRequest(v))
	assert.True(t, v.called)
}
