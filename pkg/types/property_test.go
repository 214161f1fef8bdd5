package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyValueValidate(t *testing.T) {
	tests := []struct {
		name    string
		pv      PropertyValue
		wantErr bool
	}{
		{
			name: "text accepts string",
			pv:   PropertyValue{Kind: KindText, Value: "hello"},
		},
		{
			name:    "text rejects number",
			pv:      PropertyValue{Kind: KindText, Value: 42.0},
			wantErr: true,
		},
		{
			name: "number accepts float64",
			pv:   PropertyValue{Kind: KindNumber, Value: 3.14},
		},
		{
			name: "number accepts int",
			pv:   PropertyValue{Kind: KindNumber, Value: 7},
		},
		{
			name:    "number rejects string",
			pv:      PropertyValue{Kind: KindNumber, Value: "3.14"},
			wantErr: true,
		},
		{
			name: "date accepts calendar day",
			pv:   PropertyValue{Kind: KindDate, Value: "2025-01-15"},
		},
		{
			name:    "date rejects impossible day",
			pv:      PropertyValue{Kind: KindDate, Value: "2025-02-30"},
			wantErr: true,
		},
		{
			name: "datetime accepts RFC 3339",
			pv:   PropertyValue{Kind: KindDatetime, Value: "2025-01-15T10:00:00Z"},
		},
		{
			name:    "datetime rejects bare day",
			pv:      PropertyValue{Kind: KindDatetime, Value: "2025-01-15"},
			wantErr: true,
		},
		{
			name: "select accepts configured option",
			pv: PropertyValue{
				Kind:   KindSelect,
				Value:  "open",
				Config: map[string]any{"options": []string{"open", "closed"}},
			},
		},
		{
			name:    "select requires option list",
			pv:      PropertyValue{Kind: KindSelect, Value: "open"},
			wantErr: true,
		},
		{
			name: "select rejects unknown option",
			pv: PropertyValue{
				Kind:   KindSelect,
				Value:  "stalled",
				Config: map[string]any{"options": []string{"open", "closed"}},
			},
			wantErr: true,
		},
		{
			name: "multi-select accepts string list",
			pv:   PropertyValue{Kind: KindMultiSelect, Value: []string{"a", "b"}},
		},
		{
			name: "multi-select accepts decoded JSON list",
			pv:   PropertyValue{Kind: KindMultiSelect, Value: []any{"a", "b"}},
		},
		{
			name:    "multi-select rejects mixed list",
			pv:      PropertyValue{Kind: KindMultiSelect, Value: []any{"a", 1.0}},
			wantErr: true,
		},
		{
			name: "checkbox accepts bool",
			pv:   PropertyValue{Kind: KindCheckbox, Value: true},
		},
		{
			name:    "checkbox rejects string",
			pv:      PropertyValue{Kind: KindCheckbox, Value: "true"},
			wantErr: true,
		},
		{
			name: "url accepts absolute URL",
			pv:   PropertyValue{Kind: KindURL, Value: "https://example.com/x"},
		},
		{
			name:    "url rejects relative path",
			pv:      PropertyValue{Kind: KindURL, Value: "/just/a/path"},
			wantErr: true,
		},
		{
			name: "email accepts address",
			pv:   PropertyValue{Kind: KindEmail, Value: "ada@example.com"},
		},
		{
			name:    "email rejects garbage",
			pv:      PropertyValue{Kind: KindEmail, Value: "not-an-email"},
			wantErr: true,
		},
		{
			name: "currency requires ISO code",
			pv: PropertyValue{
				Kind:   KindCurrency,
				Value:  19.99,
				Config: map[string]any{"code": "EUR"},
			},
		},
		{
			name:    "currency rejects missing code",
			pv:      PropertyValue{Kind: KindCurrency, Value: 19.99},
			wantErr: true,
		},
		{
			name: "rating accepts number",
			pv:   PropertyValue{Kind: KindRating, Value: 4.0},
		},
		{
			name:    "unknown kind rejected",
			pv:      PropertyValue{Kind: "geo", Value: "51.5,0.1"},
			wantErr: true,
		},
		{
			name: "nil value accepted for any kind",
			pv:   PropertyValue{Kind: KindEmail, Value: nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pv.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPropertyValueJSONRoundTrip(t *testing.T) {
	in := PropertyValue{
		Kind:   KindSelect,
		Value:  "active",
		Config: map[string]any{"options": []any{"active", "done"}},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	// The discriminator must serialize under the key "type".
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "active", raw["value"])
	assert.Equal(t, KindSelect, raw["type"])

	var out PropertyValue
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestObjectValidate(t *testing.T) {
	valid := Object{Type: TypeNote, Title: "a note"}
	assert.NoError(t, valid.Validate())

	empty := Object{Type: TypeNote}
	assert.ErrorIs(t, empty.Validate(), ErrValidation)

	long := Object{Type: TypeNote, Title: string(make([]byte, MaxTitleLength+1))}
	assert.ErrorIs(t, long.Validate(), ErrValidation)

	badType := Object{Type: "Not A Type", Title: "x"}
	assert.ErrorIs(t, badType.Validate(), ErrValidation)

	customType := Object{Type: "recipe", Title: "x"}
	assert.NoError(t, customType.Validate())

	badProp := Object{
		Type:       TypeNote,
		Title:      "x",
		Properties: map[string]PropertyValue{"done": {Kind: KindCheckbox, Value: "yes"}},
	}
	assert.ErrorIs(t, badProp.Validate(), ErrValidation)
}
