package scanner

import (
	"thumbnailer/logging"
	"thumbnailer/types"
)

// OutcomeRecorder persists outcomes. database.Manifest implements it.
type OutcomeRecorder interface {
	Record(o types.Outcome) error
}

// recordOutcome stores o when a recorder is configured. Storage is best
// effort: a failed insert is logged and never fails the job.
func recordOutcome(recorder OutcomeRecorder, o types.Outcome) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(o); err != nil {
		logging.LogError("Cannot record %s in manifest: %v", o.Job.SourcePath, err)
	}
}
