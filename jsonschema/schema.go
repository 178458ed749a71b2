package jsonschema

// Schema is a minimal JSON Schema representation used to describe what a
// parser accepts. Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Const       any    `json:"const,omitempty"`

	// Number
	Minimum *Number `json:"minimum,omitempty"`
	Maximum *Number `json:"maximum,omitempty"`

	// String
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`
}

// Number is an integer literal kept as text so 64-bit bounds survive
// encoding without float rounding.
type Number string

// MarshalJSON emits the number verbatim.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// UnmarshalJSON keeps the literal text.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number(b)
	return nil
}
