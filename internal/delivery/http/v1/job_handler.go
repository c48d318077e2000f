package v1

import (
	"net/http"
	"strings"
	"time"

	"campus-placement-backend/internal/delivery/http/middleware"
	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase, writeLimit gin.HandlerFunc) {
	handler := &JobHandler{jobUC: jobUC}

	staff := middleware.RoleMiddleware(domain.RoleCoordinator, domain.RoleAdmin)

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.GET("/stats", middleware.RoleMiddleware(domain.RoleAdmin), handler.Stats)
		jobs.POST("/sync-external", staff, writeLimit, handler.SyncExternal)
		jobs.GET("/:id", handler.GetDetails)
		jobs.POST("", staff, writeLimit, handler.Create)
		jobs.PUT("/:id", staff, writeLimit, handler.Update)
		jobs.DELETE("/:id", staff, writeLimit, handler.Delete)
	}
}

// JobRequest is the body of create and update calls.
type JobRequest struct {
	Title               string     `json:"title" binding:"required"`
	Company             string     `json:"company" binding:"required"`
	Location            string     `json:"location"`
	SalaryMin           float64    `json:"salary_min"`
	SalaryMax           float64    `json:"salary_max"`
	Salary              string     `json:"salary"`
	JobType             string     `json:"job_type"`
	Experience          string     `json:"experience"`
	Description         string     `json:"description"`
	Requirements        []string   `json:"requirements"`
	IsOnCampus          bool       `json:"is_on_campus"`
	ApplyURL            string     `json:"apply_url"`
	MinCGPA             float64    `json:"min_cgpa"`
	AllowedBranches     []string   `json:"allowed_branches"`
	AcademicYear        []string   `json:"academic_year"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	// Active is ignored on create; new postings are always open
	Active *bool `json:"active"`
}

func (r JobRequest) toJob() *domain.Job {
	job := &domain.Job{
		Title:               r.Title,
		Company:             r.Company,
		Location:            r.Location,
		SalaryMin:           r.SalaryMin,
		SalaryMax:           r.SalaryMax,
		Salary:              r.Salary,
		JobType:             r.JobType,
		Experience:          r.Experience,
		Description:         r.Description,
		Requirements:        r.Requirements,
		IsOnCampus:          r.IsOnCampus,
		MinCGPA:             r.MinCGPA,
		AllowedBranches:     r.AllowedBranches,
		AcademicYear:        r.AcademicYear,
		ApplicationDeadline: r.ApplicationDeadline,
		Active:              true,
	}
	if url := strings.TrimSpace(r.ApplyURL); url != "" {
		job.ApplyURL = &url
	}
	if r.Active != nil {
		job.Active = *r.Active
	}
	return job
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Students get the postings they are eligible for; coordinators and admins get every posting
// @Tags         jobs
// @Produce      json
// @Param        search     query     string  false  "Title, company or description contains"
// @Param        location   query     string  false  "Location contains"
// @Param        job_type   query     string  false  "full-time, part-time or internship"
// @Param        on_campus  query     bool    false  "Only on-campus (true) or off-campus (false) postings"
// @Success      200        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      503        {object}  response.Response
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	var filter domain.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters"))
		return
	}

	var (
		jobs []domain.Job
		err  error
	)
	if domain.IsStaffRole(callerRole(c)) {
		jobs, err = h.jobUC.ListJobs(c.Request.Context(), filter)
	} else {
		jobs, err = h.jobUC.ListEligibleJobs(c.Request.Context(), callerID(c), filter)
	}
	if err != nil {
		c.Error(err)
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	response.Success(c, http.StatusOK, "Job list", gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJobDetails godoc
// @Summary      Get job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job details", job)
}

// CreateJob godoc
// @Summary      Create a job
// @Description  Create an on-campus or manual posting (coordinator or admin)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := req.toJob()
	if err := h.jobUC.CreateJob(c.Request.Context(), callerID(c), job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int         true  "Job ID"
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := req.toJob()
	job.ID = id
	if err := h.jobUC.UpdateJob(c.Request.Context(), job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Description  Removes the posting and every application to it
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// JobStats godoc
// @Summary      Placement statistics
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs/stats [get]
// @Security     BearerAuth
func (h *JobHandler) Stats(c *gin.Context) {
	stats, err := h.jobUC.GetStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Placement statistics", stats)
}

// SyncExternalJobs godoc
// @Summary      Import postings from external aggregators
// @Description  Pulls every configured source in turn; a failing source is reported per source
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /jobs/sync-external [post]
// @Security     BearerAuth
func (h *JobHandler) SyncExternal(c *gin.Context) {
	result, err := h.jobUC.SyncExternal(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "External jobs synced", result)
}
