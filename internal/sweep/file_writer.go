package sweep

import (
	"encoding/json"
	"os"
)

// FileWriter logs rounds and outcomes to JSONL files. outcomePath may be
// empty to skip the outcome log.
type FileWriter struct {
	roundFile   *os.File
	outcomeFile *os.File
	roundEnc    *json.Encoder
	outcomeEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter.
func NewFileWriter(roundPath, outcomePath string) (*FileWriter, error) {
	rf, err := os.Create(roundPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{roundFile: rf, roundEnc: json.NewEncoder(rf)}
	if outcomePath != "" {
		of, err := os.Create(outcomePath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.outcomeFile = of
		fw.outcomeEnc = json.NewEncoder(of)
	}
	return fw, nil
}

// WriteRound logs a single round.
func (f *FileWriter) WriteRound(r Round) error {
	return f.roundEnc.Encode(r)
}

// WriteRounds logs multiple rounds.
func (f *FileWriter) WriteRounds(rounds []Round) error {
	for _, r := range rounds {
		if err := f.WriteRound(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteOutcome logs a per-level outcome, if enabled.
func (f *FileWriter) WriteOutcome(o Outcome) error {
	if f.outcomeEnc == nil {
		return nil
	}
	return f.outcomeEnc.Encode(o)
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.roundFile != nil {
		if e := f.roundFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.outcomeFile != nil {
		if e := f.outcomeFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
