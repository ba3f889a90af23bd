package controllers

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autoapply/config"
	"autoapply/models"
	"autoapply/parsers"
	"autoapply/services"
	"autoapply/utils"
)

// SubmissionRunner is the core boundary the controller drives; substituted in
// tests.
type SubmissionRunner interface {
	Submit(req *services.SubmissionRequest) *services.SubmissionResult
}

// SubmissionController exposes the core over HTTP: one multipart request in,
// one SubmissionResult out.
type SubmissionController struct {
	Runner      SubmissionRunner
	Submissions *models.SubmissionModel // nil when no database is configured
	automation  config.AutomationConfig
	// sessions bounds concurrent browser sessions; each run owns its own.
	sessions chan struct{}
}

func NewSubmissionController(runner SubmissionRunner, submissions *models.SubmissionModel, cfg config.AppConfig) *SubmissionController {
	return &SubmissionController{
		Runner:      runner,
		Submissions: submissions,
		automation:  cfg.Automation,
		sessions:    make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Health reports service liveness.
func (ctl *SubmissionController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Submit accepts a job URL, applicant fields, and a resume upload, runs one
// submission, and returns the result record 1:1 as the response body.
func (ctl *SubmissionController) Submit(c *gin.Context) {
	jobURL := strings.TrimSpace(c.PostForm("job_url"))
	if jobURL == "" {
		utils.BadRequestError(c, "job_url is required", nil)
		return
	}
	if parsed, err := url.Parse(jobURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		utils.BadRequestError(c, "job_url must be an http(s) URL", nil)
		return
	}

	upload, err := c.FormFile("resume")
	if err != nil {
		utils.BadRequestError(c, "resume file is required", err)
		return
	}

	tmpdir, err := os.MkdirTemp("", "autoapply_")
	if err != nil {
		utils.InternalServerError(c, "failed to stage resume", err)
		return
	}
	defer os.RemoveAll(tmpdir)

	resumePath := filepath.Join(tmpdir, filepath.Base(upload.Filename))
	if err := c.SaveUploadedFile(upload, resumePath); err != nil {
		utils.InternalServerError(c, "failed to save resume", err)
		return
	}
	if err := parsers.ValidateResume(resumePath); err != nil {
		utils.BadRequestError(c, "invalid resume file", err)
		return
	}

	req := &services.SubmissionRequest{
		JobURL:     jobURL,
		ResumePath: resumePath,
		Fields: map[services.Role]string{
			services.RoleName:     strings.TrimSpace(c.PostForm("name")),
			services.RoleEmail:    strings.TrimSpace(c.PostForm("email")),
			services.RolePhone:    strings.TrimSpace(c.PostForm("phone")),
			services.RoleLinkedIn: strings.TrimSpace(c.PostForm("linkedin")),
			services.RoleWebsite:  strings.TrimSpace(c.PostForm("website")),
		},
		Options: services.RunOptions{
			Headless:   ctl.automation.Headless,
			NavTimeout: ctl.automation.NavTimeout,
			MaxSteps:   ctl.automation.MaxSteps,
		},
		RunID: uuid.NewString(),
	}

	// One browser session per run, pool-bounded.
	ctl.sessions <- struct{}{}
	defer func() { <-ctl.sessions }()

	log.Printf("Processing submission %s for %s", req.RunID, jobURL)
	result := ctl.Runner.Submit(req)
	log.Printf("Submission %s finished: %s", req.RunID, result.Status)

	if ctl.Submissions != nil {
		if err := ctl.Submissions.Save(req.RunID, result); err != nil {
			log.Printf("Failed to persist submission %s: %v", req.RunID, err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// List returns recent stored submissions when persistence is configured.
func (ctl *SubmissionController) List(c *gin.Context) {
	if ctl.Submissions == nil {
		utils.ServiceUnavailableError(c, "submission history is not configured")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := ctl.Submissions.Recent(limit)
	if err != nil {
		utils.InternalServerError(c, "failed to list submissions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": records, "total": len(records)})
}
