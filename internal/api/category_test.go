package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/kharcha/internal/api"
)

func TestCategory_UnmarshalBothShapes(t *testing.T) {
	type testCase struct {
		name string
		raw  string
		want api.Category
	}

	tests := []testCase{
		{
			name: "plain string",
			raw:  `"Food & Dining"`,
			want: api.Category{Name: "Food & Dining"},
		},
		{
			name: "object with id and name",
			raw:  `{"id":"c-12","name":"Travel"}`,
			want: api.Category{ID: "c-12", Name: "Travel"},
		},
		{
			name: "object with name only",
			raw:  `{"name":"Utilities"}`,
			want: api.Category{Name: "Utilities"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got api.Category
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCategory_UnmarshalRejectsOtherShapes(t *testing.T) {
	var got api.Category
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	assert.Error(t, json.Unmarshal([]byte(`["Food"]`), &got))
}

func TestCategory_MarshalEmitsPlainName(t *testing.T) {
	b, err := json.Marshal(api.Category{ID: "c-9", Name: "Rent"})
	require.NoError(t, err)
	assert.JSONEq(t, `"Rent"`, string(b))
}

func TestCategory_EmbeddedInTransaction(t *testing.T) {
	raw := `{"id":"1b4e28ba-2fa1-11d2-883f-0016d3cca427","type":"expense","amount":"125.50",` +
		`"description":"Groceries","category":{"id":"c-3","name":"Food & Dining"},"date":"2024-03-15"}`

	var tx api.Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))

	assert.Equal(t, "Food & Dining", tx.Category.Name)
	assert.Equal(t, int64(12550), tx.Amount.Paise())
}
