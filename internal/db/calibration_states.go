package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-aligner/internal/types"
)

// SaveCalibrationState records one published calibration state. Each version
// is written exactly once; the active state lives in memory and this table
// is the durable history used to restore it on startup.
func (db *DB) SaveCalibrationState(ctx context.Context, state *types.CalibrationState) error {
	rates, err := json.Marshal(state.BucketRates)
	if err != nil {
		return fmt.Errorf("failed to marshal bucket rates: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO calibration_states
		 (model_version, hybrid_weight, bucket_rates, sample_size, published_at, adjustment_note)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		state.ModelVersion, state.HybridWeight, rates, state.SampleSize,
		state.PublishedAt, state.AdjustmentNote,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calibration state v%d: %w", state.ModelVersion, err)
	}
	return nil
}

// LatestCalibrationState returns the highest-version published state, or nil
// when none has been published yet.
func (db *DB) LatestCalibrationState(ctx context.Context) (*types.CalibrationState, error) {
	var (
		state types.CalibrationState
		rates []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT model_version, hybrid_weight, bucket_rates, sample_size, published_at, adjustment_note
		 FROM calibration_states ORDER BY model_version DESC LIMIT 1`,
	).Scan(&state.ModelVersion, &state.HybridWeight, &rates, &state.SampleSize,
		&state.PublishedAt, &state.AdjustmentNote)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest calibration state: %w", err)
	}

	if err := json.Unmarshal(rates, &state.BucketRates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bucket rates: %w", err)
	}
	return &state, nil
}
