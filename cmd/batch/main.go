// Command batch submits a resume to every job URL in a JSON list and writes
// an aggregate report.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"autoapply/batch"
	"autoapply/browser"
	"autoapply/parsers"
	"autoapply/services"
)

var (
	flagName        string
	flagEmail       string
	flagPhone       string
	flagLinkedIn    string
	flagWebsite     string
	flagOutput      string
	flagHeadless    bool
	flagMaxSteps    int
	flagTimeoutSec  int
	flagConcurrency int
	flagUploadS3    bool
)

var rootCmd = &cobra.Command{
	Use:   "batch <jobs.json> <resume>",
	Short: "Batch submit job applications with a resume",
	Long: `Reads a JSON array of job objects ([{"url": "https://..."}, ...]),
drives one browser session per job to fill and submit the application form,
and writes a single JSON report with per-job results and status tallies.`,
	Args: cobra.ExactArgs(2),
	RunE: run,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagName, "name", "", "applicant full name")
	rootCmd.Flags().StringVar(&flagEmail, "email", "", "applicant email address")
	rootCmd.Flags().StringVar(&flagPhone, "phone", "", "applicant phone number")
	rootCmd.Flags().StringVar(&flagLinkedIn, "linkedin", "", "LinkedIn profile URL")
	rootCmd.Flags().StringVar(&flagWebsite, "website", "", "personal website / portfolio URL")
	rootCmd.Flags().StringVar(&flagOutput, "output", "submissions.json", "output file for the report")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", true, "run the browser headless")
	rootCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "max form steps per job (default 5)")
	rootCmd.Flags().IntVar(&flagTimeoutSec, "nav-timeout", 30, "navigation timeout in seconds")
	rootCmd.Flags().IntVar(&flagConcurrency, "concurrency", batch.DefaultConcurrency, "concurrent browser sessions")
	rootCmd.Flags().BoolVar(&flagUploadS3, "upload-report", false, "also upload the report to S3")
}

func run(cmd *cobra.Command, args []string) error {
	jobsFile, resumePath := args[0], args[1]

	if err := parsers.ValidateResume(resumePath); err != nil {
		return fmt.Errorf("resume check failed: %v", err)
	}

	jobs, err := batch.LoadJobs(jobsFile)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs found in %s", jobsFile)
	}
	log.Printf("Found %d job(s) to process", len(jobs))

	submitter := services.NewSubmitter(browser.LaunchPlaywright)
	runner := &batch.Runner{
		Submit:     submitter.Submit,
		ResumePath: resumePath,
		Fields: map[services.Role]string{
			services.RoleName:     flagName,
			services.RoleEmail:    flagEmail,
			services.RolePhone:    flagPhone,
			services.RoleLinkedIn: flagLinkedIn,
			services.RoleWebsite:  flagWebsite,
		},
		Options: services.RunOptions{
			Headless:   flagHeadless,
			NavTimeout: time.Duration(flagTimeoutSec) * time.Second,
			MaxSteps:   flagMaxSteps,
		},
		Concurrency: flagConcurrency,
	}

	report := runner.Run(context.Background(), jobs)

	if err := batch.WriteReport(report, flagOutput); err != nil {
		return err
	}
	log.Printf("Results saved to %s", flagOutput)

	if flagUploadS3 {
		uploadReport(flagOutput)
	}

	log.Printf("Summary: submitted=%d failed=%d error=%d total=%d",
		report.Stats.Submitted, report.Stats.Failed, report.Stats.Error, report.Stats.Total)

	if report.Stats.Error > 0 {
		os.Exit(1)
	}
	return nil
}

func uploadReport(path string) {
	s3Service, err := services.NewS3Service()
	if err != nil {
		log.Printf("Skipping report upload, S3 not configured: %v", err)
		return
	}
	key := fmt.Sprintf("reports/submissions_%d.json", time.Now().Unix())
	if _, err := s3Service.UploadFile(path, key); err != nil {
		log.Printf("Failed to upload report: %v", err)
		return
	}
	log.Printf("Report uploaded to S3: %s", key)
}
