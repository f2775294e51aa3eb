package sweep

// MultiWriter fan-outs rounds and outcomes to multiple writers.
type MultiWriter struct {
	roundWriters   []RoundWriter
	outcomeWriters []OutcomeWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(rws []RoundWriter, ows []OutcomeWriter) *MultiWriter {
	return &MultiWriter{roundWriters: rws, outcomeWriters: ows}
}

// WriteRound sends a round to all round writers.
func (mw *MultiWriter) WriteRound(r Round) error {
	for _, w := range mw.roundWriters {
		if err := w.WriteRound(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRounds sends multiple rounds to all round writers, using batch
// mode where supported.
func (mw *MultiWriter) WriteRounds(rounds []Round) error {
	for _, w := range mw.roundWriters {
		if bw, ok := w.(batchRoundWriter); ok {
			if err := bw.WriteRounds(rounds); err != nil {
				return err
			}
			continue
		}
		for _, r := range rounds {
			if err := w.WriteRound(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteOutcome sends an outcome to all outcome writers.
func (mw *MultiWriter) WriteOutcome(o Outcome) error {
	for _, w := range mw.outcomeWriters {
		if err := w.WriteOutcome(o); err != nil {
			return err
		}
	}
	return nil
}
