package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"campus-placement-backend/internal/delivery/http/middleware"
	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase, writeLimit gin.HandlerFunc) {
	handler := &ApplicationHandler{appUC: appUC}

	staff := middleware.RoleMiddleware(domain.RoleCoordinator, domain.RoleAdmin)
	student := middleware.RoleMiddleware(domain.RoleStudent)

	apps := protected.Group("/applications")
	{
		// Student routes; ownership is checked in the usecase
		apps.POST("", student, writeLimit, handler.Apply)
		apps.GET("/user/:userId", handler.ListByStudent)
		apps.GET("/user/:userId/stats", handler.StudentStats)
		apps.PUT("/:id/withdraw", student, writeLimit, handler.Withdraw)

		apps.GET("/:id", handler.GetDetail)

		// Coordinator routes
		apps.GET("/job/:jobId", staff, handler.ListByJob)
		apps.GET("/job/:jobId/export", staff, handler.ExportByJob)
		apps.PUT("/:id/status", staff, writeLimit, handler.UpdateStatus)
		apps.PUT("/:id/interview", staff, writeLimit, handler.UpdateInterview)
		apps.DELETE("/:id", staff, writeLimit, handler.Delete)
	}
}

type ApplyRequest struct {
	JobID int64 `json:"job_id" binding:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type WithdrawRequest struct {
	Notes string `json:"notes"`
}

// ApplyToJob godoc
// @Summary      Apply to an on-campus job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        request  body      ApplyRequest  true  "Job to apply to"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("A valid job_id is required"))
		return
	}

	app, err := h.appUC.Apply(c.Request.Context(), callerID(c), req.JobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListStudentApplications godoc
// @Summary      List a student's applications
// @Tags         applications
// @Produce      json
// @Param        userId  path      string  true  "Student user ID"
// @Success      200     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /applications/user/{userId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByStudent(c *gin.Context) {
	apps, err := h.appUC.ListByStudent(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	if apps == nil {
		apps = []domain.Application{}
	}

	response.Success(c, http.StatusOK, "Applications retrieved", gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

// StudentApplicationStats godoc
// @Summary      Count a student's applications per status
// @Tags         applications
// @Produce      json
// @Param        userId  path      string  true  "Student user ID"
// @Success      200     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /applications/user/{userId}/stats [get]
// @Security     BearerAuth
func (h *ApplicationHandler) StudentStats(c *gin.Context) {
	stats, err := h.appUC.Stats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application statistics", stats)
}

// GetApplicationDetail godoc
// @Summary      Get an application with its status history
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetDetail(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.appUC.GetApplication(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application details retrieved", app)
}

// WithdrawApplication godoc
// @Summary      Withdraw an application
// @Description  Only before an interview is scheduled
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int              true   "Application ID"
// @Param        request  body      WithdrawRequest  false  "Optional note"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications/{id}/withdraw [put]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.appUC.Withdraw(c.Request.Context(), id, callerID(c), req.Notes)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application withdrawn", app)
}

// ListJobApplications godoc
// @Summary      List applications for a job
// @Tags         applications
// @Produce      json
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /applications/job/{jobId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	jobID, err := parseID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	apps, err := h.appUC.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	if apps == nil {
		apps = []domain.Application{}
	}

	response.Success(c, http.StatusOK, "Applications retrieved", gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

// ExportJobApplications godoc
// @Summary      Export a job's applications as a spreadsheet
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        jobId  path  int  true  "Job ID"
// @Success      200    {file}    file
// @Failure      404    {object}  response.Response
// @Router       /applications/job/{jobId}/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ExportByJob(c *gin.Context) {
	jobID, err := parseID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	export, err := h.appUC.ExportByJob(c.Request.Context(), jobID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	if export.ArchiveKey != "" {
		c.Header("X-Archive-Key", export.ArchiveKey)
	}
	c.Data(http.StatusOK, export.ContentType, export.Content)
}

// UpdateApplicationStatus godoc
// @Summary      Move an application along its lifecycle
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Application ID"
// @Param        request  body      UpdateStatusRequest  true  "New status"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications/{id}/status [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Status is required"))
		return
	}

	status, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		c.Error(apperror.Validation("Invalid status", []string{fmt.Sprintf("Status: %q is not a known application status", req.Status)}))
		return
	}

	app, err := h.appUC.UpdateStatus(c.Request.Context(), id, status, req.Notes)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", app)
}

// ScheduleInterview godoc
// @Summary      Schedule or update an interview
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Application ID"
// @Param        request  body      domain.InterviewDetails  true  "Interview details"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications/{id}/interview [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateInterview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var details domain.InterviewDetails
	if err := c.ShouldBindJSON(&details); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.appUC.UpdateInterview(c.Request.Context(), id, details)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview scheduled", app)
}

// DeleteApplication godoc
// @Summary      Delete an application
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.appUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application deleted", nil)
}
