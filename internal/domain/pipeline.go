package domain

import "fmt"

// Stage is a step of the ingestion pipeline for a single webhook delivery.
type Stage string

const (
	StageReceived     Stage = "received"
	StageParsed       Stage = "parsed"
	StageDerived      Stage = "derived"
	StageBuilt        Stage = "built"
	StageAppended     Stage = "appended"
	StageAcknowledged Stage = "acknowledged"
)

// PipelineError records the last stage reached before the failure.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e PipelineError) Error() string {
	return fmt.Sprintf("ingest failed after %s: %v", e.Stage, e.Err)
}

func (e PipelineError) Unwrap() error { return e.Err }
