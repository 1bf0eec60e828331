package game

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Result is the record of one round
type Result struct {
	Continent string
	Coins     int
	// Progress is the number of fixed countries out of Total.
	Progress int
	Total    int
	Start    time.Time
	Finish   time.Time
}

// Finished reports whether the round was completed.
func (r Result) Finished() bool {
	return !r.Finish.IsZero()
}

// Duration returns the playing time of a finished round.
func (r Result) Duration() time.Duration {
	if !r.Finished() {
		return 0
	}
	return r.Finish.Sub(r.Start)
}

// History represents the serializable form of saved results
type History struct {
	Results []Result
}

// SaveResults saves results to a binary file
func SaveResults(filename string, results []Result) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(History{Results: results}); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	return nil
}

// LoadResults loads results from a binary file. A missing file is an empty
// history.
func LoadResults(filename string) ([]Result, error) {
	file, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var history History
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&history); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	return history.Results, nil
}

// AppendResult adds r to the history stored in filename.
func AppendResult(filename string, r Result) error {
	results, err := LoadResults(filename)
	if err != nil {
		return err
	}
	return SaveResults(filename, append(results, r))
}
