// Package batch runs many submissions against a job list and aggregates one
// report. Each job gets its own exclusive browser session; concurrency is a
// containment policy of this layer, never of the core state machine.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"autoapply/services"
)

const DefaultConcurrency = 2

// Job is one entry of the input job list.
type Job struct {
	URL string `json:"url"`
}

// Stats tallies terminal statuses across a batch.
type Stats struct {
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
	Error     int `json:"error"`
	Total     int `json:"total"`
}

// Report is the single JSON document a batch produces. Submissions appear in
// input order regardless of completion order.
type Report struct {
	GeneratedAt time.Time                    `json:"generated_at"`
	Total       int                          `json:"total"`
	Submissions []*services.SubmissionResult `json:"submissions"`
	Stats       Stats                        `json:"stats"`
}

// Runner drives one batch.
type Runner struct {
	Submit      func(req *services.SubmissionRequest) *services.SubmissionResult
	ResumePath  string
	Fields      map[services.Role]string
	Options     services.RunOptions
	Concurrency int
}

// LoadJobs reads the job list: a JSON array of {"url": ...} objects.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %v", err)
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("jobs file must contain a JSON array of job objects: %v", err)
	}
	return jobs, nil
}

// Run processes every job and returns the aggregate report.
func (r *Runner) Run(ctx context.Context, jobs []Job) *Report {
	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	results := make([]*services.SubmissionResult, len(jobs))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if job.URL == "" {
				log.Printf("Job %d: missing 'url' field, skipping", i+1)
				return nil
			}
			log.Printf("[%d/%d] Processing: %s", i+1, len(jobs), job.URL)
			results[i] = r.Submit(&services.SubmissionRequest{
				JobURL:     job.URL,
				ResumePath: r.ResumePath,
				Fields:     r.Fields,
				Options:    r.Options,
			})
			log.Printf("[%d/%d] %s: %s", i+1, len(jobs), job.URL, results[i].Status)
			return nil
		})
	}
	g.Wait()

	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Total:       len(jobs),
		Submissions: []*services.SubmissionResult{},
	}
	for _, result := range results {
		if result == nil {
			continue
		}
		report.Submissions = append(report.Submissions, result)
		switch result.Status {
		case services.StatusSubmitted:
			report.Stats.Submitted++
		case services.StatusFailed:
			report.Stats.Failed++
		default:
			report.Stats.Error++
		}
	}
	report.Stats.Total = len(jobs)
	return report
}

// WriteReport persists the report as one indented JSON document.
func WriteReport(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %v", err)
	}
	return nil
}
