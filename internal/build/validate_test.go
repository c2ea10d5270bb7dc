package build

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContract() map[string][]string {
	return map[string][]string{
		"body/bodies/female":  {"amber", "pale"},
		"head/heads/round":    {"amber", "pale"},
		"clothes/shirts/adult": {"red", "blue"},
	}
}

func validBuild() *Build {
	return &Build{
		Schema:     SchemaTag,
		Generator:  Generator,
		Animations: []string{"idle"},
		Layers: []Layer{
			{Category: "body/bodies/female", Variant: "amber"},
			{Category: "head/heads/round", Variant: "amber"},
			{Category: "clothes/shirts/adult", Variant: "red"},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	v := NewValidator(testContract())
	require.NoError(t, v.Validate(validBuild()))
}

// Validation is idempotent and side-effect-free: a second call never
// fails after a first success and the build is untouched.
func TestValidateIdempotent(t *testing.T) {
	v := NewValidator(testContract())
	b := validBuild()

	before, err := json.Marshal(b)
	require.NoError(t, err)

	require.NoError(t, v.Validate(b))
	require.NoError(t, v.Validate(b))

	after, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestValidateDisallowedVariant(t *testing.T) {
	v := NewValidator(testContract())
	b := validBuild()
	b.Layers[2].Variant = "neon"

	err := v.Validate(b)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "layers[2].variant", verr.Fields[0].Field)
	assert.Contains(t, verr.Fields[0].Message, "neon")
	assert.Contains(t, verr.Fields[0].Message, "clothes/shirts/adult")
}

func TestValidateUnknownCategory(t *testing.T) {
	v := NewValidator(testContract())
	b := validBuild()
	b.Layers[2].Category = "clothes/capes/adult"

	err := v.Validate(b)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "layers[2].category", verr.Fields[0].Field)
}

func TestValidateHeadBodyMismatch(t *testing.T) {
	v := NewValidator(testContract())
	b := validBuild()
	b.Layers[1].Variant = "pale"

	err := v.Validate(b)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Contains(t, verr.Fields[0].Message, `head variant "pale"`)
}

func TestValidateRequiredLayers(t *testing.T) {
	tests := []struct {
		name   string
		layers []Layer
	}{
		{"no head", []Layer{{Category: "body/bodies/female", Variant: "amber"}}},
		{"no body", []Layer{{Category: "head/heads/round", Variant: "amber"}}},
		{"two bodies", []Layer{
			{Category: "body/bodies/female", Variant: "amber"},
			{Category: "body/bodies/female", Variant: "amber"},
			{Category: "head/heads/round", Variant: "amber"},
		}},
	}

	v := NewValidator(testContract())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBuild()
			b.Layers = tt.layers
			assert.Error(t, v.Validate(b))
		})
	}
}

func TestValidateWrongSchemaTag(t *testing.T) {
	v := NewValidator(testContract())
	b := validBuild()
	b.Schema = "something-else/v9"
	assert.Error(t, v.Validate(b))
}

func TestTintRGB(t *testing.T) {
	r, g, b, err := Tint{Color: "#80FF00"}.RGB()
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x80, 0xFF, 0x00}, []uint8{r, g, b})

	_, _, _, err = Tint{Color: "red"}.RGB()
	assert.Error(t, err)
}

func TestLayerLookups(t *testing.T) {
	b := validBuild()
	require.NotNil(t, b.BodyLayer())
	assert.Equal(t, "body/bodies/female", b.BodyLayer().Category)
	require.NotNil(t, b.HeadLayer())
	assert.Equal(t, "head/heads/round", b.HeadLayer().Category)

	empty := &Build{}
	assert.Nil(t, empty.BodyLayer())
	assert.Nil(t, empty.HeadLayer())
}

func TestSchemaJSON(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"layers"`)
	assert.Contains(t, string(data), "Spriteforge Build")
}
