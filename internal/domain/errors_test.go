package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind string
	}{
		{name: "nil", err: nil, kind: ""},
		{name: "validation", err: ValidationError{Field: "dateTime", Reason: ReasonMissingField}, kind: "validation_error"},
		{name: "transient", err: TransientStoreError{Attempts: 3}, kind: "transient_store_error"},
		{name: "permanent", err: PermanentStoreError{}, kind: "permanent_store_error"},
		{name: "internal", err: InternalError{}, kind: "internal_error"},
		{name: "unclassified", err: errors.New("boom"), kind: "internal_error"},
		{
			name: "wrapped in pipeline error",
			err:  PipelineError{Stage: StageBuilt, Err: fmt.Errorf("append: %w", PermanentStoreError{})},
			kind: "permanent_store_error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, Kind(tc.err))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "dateTime", Reason: ReasonMalformedDate, Err: errors.New("bad")}
	assert.Equal(t, "dateTime: malformed_date: bad", err.Error())
	assert.Equal(t, "dateTime: missing_field", ValidationError{Field: "dateTime", Reason: ReasonMissingField}.Error())
	assert.Equal(t, "malformed_payload", ValidationError{Reason: ReasonMalformedPayload}.Error())
}

func TestTransientStoreError_Error(t *testing.T) {
	err := TransientStoreError{Attempts: 3, Err: errors.New("429")}
	assert.Equal(t, "ledger temporarily unavailable after 3 attempts: 429", err.Error())
	assert.ErrorContains(t, err, "429")
}

func TestPipelineError_Unwrap(t *testing.T) {
	cause := ValidationError{Field: "dateTime", Reason: ReasonMissingField}
	err := PipelineError{Stage: StageReceived, Err: cause}

	var target ValidationError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "dateTime", target.Field)
	assert.Contains(t, err.Error(), "received")
}

func TestRow_Cells(t *testing.T) {
	row := Row{Date: "12, Apr, Fri", TotalPeople: 2, TotalPrice: 100, NetPrice: 69, Note: AutoFillNote}
	cells := row.Cells()

	assert.Len(t, cells, RowWidth)
	assert.Equal(t, "12, Apr, Fri", cells[0])
	assert.Equal(t, 2, cells[9])
	assert.Equal(t, float64(100), cells[10])
	assert.Equal(t, int64(69), cells[11])
	assert.Equal(t, AutoFillNote, cells[16])

	cells[0] = "mutated"
	assert.Equal(t, "12, Apr, Fri", row.Cells()[0])
}
