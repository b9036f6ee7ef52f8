package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID string `json:"id"`
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []item
	}{
		{"array", `[{"id":"a"},{"id":"b"}]`, []item{{"a"}, {"b"}}},
		{"wrapper", `{"claims":[{"id":"a"},{"id":"b"}]}`, []item{{"a"}, {"b"}}},
		{"second key", `{"data":[{"id":"a"}]}`, []item{{"a"}}},
		{"wrapper without list", `{"claims":"none"}`, []item{}},
		{"unknown object", `{"other":[{"id":"a"}]}`, []item{}},
		{"null", `null`, []item{}},
		{"empty", ``, []item{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeList[item](json.RawMessage(tt.raw), "claims", "data")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeListOrSingle(t *testing.T) {
	got, err := DecodeListOrSingle[item](json.RawMessage(`{"id":"solo"}`), "reports")
	require.NoError(t, err)
	assert.Equal(t, []item{{"solo"}}, got)

	got, err = DecodeListOrSingle[item](json.RawMessage(`{"reports":[{"id":"a"}]}`), "reports")
	require.NoError(t, err)
	assert.Equal(t, []item{{"a"}}, got)

	_, err = DecodeList[item](json.RawMessage(`[{"id":1}]`))
	assert.Error(t, err)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "Please fix", failureMessage("Error", invalid("", "Please fix")))
	assert.Equal(t, "Error: Unknown error", failureMessage("Error", nil))
	assert.Equal(t, "boom", failureMessage("", errors.New("boom")))
}
