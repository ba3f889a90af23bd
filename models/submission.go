package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"autoapply/services"
)

// SubmissionModel persists finished run records. Persistence lives entirely
// in this calling layer; the core keeps no cross-run state.
type SubmissionModel struct {
	db *sql.DB
}

func NewSubmissionModel(db *sql.DB) *SubmissionModel {
	return &SubmissionModel{db: db}
}

// SubmissionRecord is one stored run.
type SubmissionRecord struct {
	ID           string          `json:"id"`
	JobURL       string          `json:"job_url"`
	Status       string          `json:"status"`
	SubmittedAt  *time.Time      `json:"submitted_at"`
	Notes        json.RawMessage `json:"notes"`
	FieldsFilled json.RawMessage `json:"fields_filled"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EnsureTable creates the submissions table if it does not exist.
func (m *SubmissionModel) EnsureTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id            TEXT PRIMARY KEY,
			job_url       TEXT NOT NULL,
			status        TEXT NOT NULL,
			submitted_at  TIMESTAMPTZ,
			notes         JSONB NOT NULL DEFAULT '[]',
			fields_filled JSONB NOT NULL DEFAULT '{}',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("error creating submissions table: %v", err)
	}
	return nil
}

// Save stores one finished run under the given id.
func (m *SubmissionModel) Save(id string, result *services.SubmissionResult) error {
	notes, err := json.Marshal(result.Notes)
	if err != nil {
		return fmt.Errorf("error encoding notes: %v", err)
	}
	fields, err := json.Marshal(result.FieldsFilled)
	if err != nil {
		return fmt.Errorf("error encoding fields: %v", err)
	}

	_, err = m.db.Exec(`
		INSERT INTO submissions (id, job_url, status, submitted_at, notes, fields_filled)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, result.JobURL, string(result.Status), result.SubmittedAt, notes, fields)
	if err != nil {
		return fmt.Errorf("error saving submission: %v", err)
	}
	return nil
}

// Recent lists the newest records, newest first.
func (m *SubmissionModel) Recent(limit int) ([]SubmissionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := m.db.Query(`
		SELECT id, job_url, status, submitted_at, notes, fields_filled, created_at
		FROM submissions
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %v", err)
	}
	defer rows.Close()

	records := []SubmissionRecord{}
	for rows.Next() {
		var rec SubmissionRecord
		if err := rows.Scan(&rec.ID, &rec.JobURL, &rec.Status, &rec.SubmittedAt, &rec.Notes, &rec.FieldsFilled, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning submission: %v", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
