package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAssessment = `{"scores":{"technical":80,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":"Solid answers."}`

func TestValidate_Assessment(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "valid", payload: validAssessment},
		{name: "integral float accepted", payload: `{"scores":{"technical":80.0,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":"ok"}`},
		{name: "missing culturalFit", payload: `{"scores":{"technical":80,"communication":75,"problemSolving":70,"experience":65,"overall":76},"feedback":"ok"}`, wantErr: true},
		{name: "technical out of range", payload: `{"scores":{"technical":150,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":"ok"}`, wantErr: true},
		{name: "negative score", payload: `{"scores":{"technical":-1,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":"ok"}`, wantErr: true},
		{name: "fractional score", payload: `{"scores":{"technical":80.5,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":"ok"}`, wantErr: true},
		{name: "string score", payload: `{"scores":{"technical":"80","communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":"ok"}`, wantErr: true},
		{name: "extra dimension", payload: `{"scores":{"technical":80,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76,"charisma":99},"feedback":"ok"}`, wantErr: true},
		{name: "empty feedback", payload: `{"scores":{"technical":80,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":""}`, wantErr: true},
		{name: "blank feedback", payload: `{"scores":{"technical":80,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76},"feedback":"   "}`, wantErr: true},
		{name: "missing feedback", payload: `{"scores":{"technical":80,"communication":75,"problemSolving":70,"experience":65,"culturalFit":90,"overall":76}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Assessment, tt.payload)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error should be ValidationError type")
			assert.NotEmpty(t, verr.Errors)
		})
	}
}

func TestValidate_Questions(t *testing.T) {
	assert.NoError(t, Validate(Questions, `[{"question":"What is a goroutine?","type":"technical"}]`))

	err := Validate(Questions, `[{"question":"What is a goroutine?","type":"trivia"}]`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors[0].Field, "type")

	assert.Error(t, Validate(Questions, `[{"type":"technical"}]`))
	assert.Error(t, Validate(Questions, `{"question":"not an array","type":"technical"}`))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate(Name("nope"), `{}`)
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "nope.schema.json")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"Ada"}`))

	err := ValidateJSONString(schema, `{}`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}
