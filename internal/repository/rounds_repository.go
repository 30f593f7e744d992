package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type RoundsRepository interface {
	Current(ctx context.Context) (int, error)
	Increment(ctx context.Context) (int, error)
}

type roundsFile struct {
	CurrentRound int `json:"current_round"`
}

// roundsRepository keeps the daily posting round counter in rounds.json,
// stored at the root of the metadata tree next to the painting folders.
type roundsRepository struct {
	path string
}

func NewRoundsRepository(path string) RoundsRepository {
	return &roundsRepository{path: path}
}

// Current returns the active round, creating the file at round 1 on first
// use.
func (r *roundsRepository) Current(ctx context.Context) (int, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := r.write(1); err != nil {
				return 0, err
			}
			return 1, nil
		}
		return 0, fmt.Errorf("reading rounds file: %w", err)
	}

	var f roundsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parsing rounds file: %w", err)
	}
	if f.CurrentRound < 1 {
		f.CurrentRound = 1
	}
	return f.CurrentRound, nil
}

func (r *roundsRepository) Increment(ctx context.Context) (int, error) {
	current, err := r.Current(ctx)
	if err != nil {
		return 0, err
	}
	next := current + 1
	if err := r.write(next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *roundsRepository) write(round int) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating rounds directory: %w", err)
	}
	data, err := json.MarshalIndent(roundsFile{CurrentRound: round}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing rounds file: %w", err)
	}
	return nil
}
