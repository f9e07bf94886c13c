package docgrab

// Stage is a step of a pipeline run. Runs move through the stages in order
// and never go back.
type Stage string

// Pipeline stages.
const (
	StageStart      Stage = "start"
	StageRendered   Stage = "rendered"
	StageExtracted  Stage = "extracted"
	StageFetching   Stage = "fetching"
	StageSummarized Stage = "summarized"
	StageDone       Stage = "done"
)

// Summary reports the result of one pipeline run.
type Summary struct {
	RunID     string
	URL       string
	OutputDir string // absolute once the run reaches StageFetching
	Backend   string // renderer whose HTML was used
	Stage     Stage

	Candidates int
	Outcomes   []*Outcome

	Succeeded int
	Failed    int
	Skipped   int

	// Err is set when the run ended early because no usable HTML could be
	// obtained or the output directory could not be prepared.
	Err error
}

// Tally recomputes the status counts from Outcomes.
func (s *Summary) Tally() {
	s.Succeeded, s.Failed, s.Skipped = 0, 0, 0
	for _, o := range s.Outcomes {
		switch o.Status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusSkippedExisting:
			s.Skipped++
		}
	}
}

// BytesWritten returns the number of bytes written across all outcomes.
func (s *Summary) BytesWritten() int64 {
	var n int64
	for _, o := range s.Outcomes {
		n += o.BytesWritten
	}
	return n
}

// Progress reports an outcome as soon as it is produced.
type Progress struct {
	Outcome   *Outcome
	Completed int
	Total     int
}

// ProgressFunc is called once per candidate during the fetch stage.
type ProgressFunc func(Progress)
