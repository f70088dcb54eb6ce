package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body string
		want AgeInput
	}{
		{`{"age": 30}`, "30"},
		{`{"age": "41"}`, "41"},
		{`{"age": "not-a-number"}`, "not-a-number"},
		{`{"age": 30.5}`, "30.5"},
		{`{"age": null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		var req RegisterPatientRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req), tt.body)
		assert.Equal(t, tt.want, req.Age, tt.body)
	}
}
