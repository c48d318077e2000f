package v1

import (
	"net/http"

	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase, writeLimit gin.HandlerFunc) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/users/profile")
	{
		profiles.POST("", writeLimit, handler.Create)
		profiles.GET("/:id", handler.Get)
		profiles.PUT("/:id", writeLimit, handler.Update)
		profiles.GET("/:id/check-onboarding", handler.CheckOnboarding)
	}
}

// ProfileRequest is the onboarding form. The owner is always the caller
// (create) or the path id (update).
type ProfileRequest struct {
	FullName       string           `json:"full_name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	InstitutionID  int64            `json:"institution_id"`
	Branch         string           `json:"branch"`
	CGPA           float64          `json:"cgpa"`
	Semester       int              `json:"semester"`
	AcademicYear   string           `json:"academic_year"`
	Skills         []string         `json:"skills"`
	Projects       []domain.Project `json:"projects"`
	Certifications []string         `json:"certifications"`
	ResumeURL      string           `json:"resume_url"`
	MarksMemoURL   string           `json:"marks_memo_url"`
}

func (r ProfileRequest) toProfile(userID string) *domain.StudentProfile {
	return &domain.StudentProfile{
		UserID:         userID,
		FullName:       r.FullName,
		Email:          r.Email,
		Phone:          r.Phone,
		InstitutionID:  r.InstitutionID,
		Branch:         r.Branch,
		CGPA:           r.CGPA,
		Semester:       r.Semester,
		AcademicYear:   r.AcademicYear,
		Skills:         r.Skills,
		Projects:       r.Projects,
		Certifications: r.Certifications,
		ResumeURL:      r.ResumeURL,
		MarksMemoURL:   r.MarksMemoURL,
	}
}

// CreateProfile godoc
// @Summary      Complete onboarding
// @Description  Creates the caller's student profile; a second call conflicts
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile  body      ProfileRequest  true  "Profile JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /users/profile [post]
// @Security     BearerAuth
func (h *ProfileHandler) Create(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := req.toProfile(callerID(c))
	if err := h.profileUC.CreateProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile created", profile)
}

// GetProfile godoc
// @Summary      Get a student profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/profile/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileUC.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateProfile godoc
// @Summary      Update a student profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id       path      string          true  "User ID"
// @Param        profile  body      ProfileRequest  true  "Profile JSON"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /users/profile/{id} [put]
// @Security     BearerAuth
func (h *ProfileHandler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := req.toProfile(c.Param("id"))
	if err := h.profileUC.UpdateProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// CheckOnboarding godoc
// @Summary      Check whether a student finished onboarding
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Router       /users/profile/{id}/check-onboarding [get]
// @Security     BearerAuth
func (h *ProfileHandler) CheckOnboarding(c *gin.Context) {
	status, err := h.profileUC.CheckOnboarding(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Onboarding status", status)
}
