package v1

import (
	"net/http"

	"campus-placement-backend/internal/delivery/http/middleware"
	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type InstitutionHandler struct {
	institutionUC domain.InstitutionUsecase
}

func NewInstitutionHandler(protected *gin.RouterGroup, institutionUC domain.InstitutionUsecase, writeLimit gin.HandlerFunc) {
	handler := &InstitutionHandler{institutionUC: institutionUC}

	institutions := protected.Group("/institutions")
	{
		institutions.GET("", handler.List)
		institutions.GET("/:id", handler.Get)
		institutions.POST("", middleware.RoleMiddleware(domain.RoleAdmin), writeLimit, handler.Register)
	}
}

type RegisterInstitutionRequest struct {
	Name       string `json:"name" binding:"required"`
	Code       string `json:"code" binding:"required"`
	City       string `json:"city"`
	Registered *bool  `json:"registered"`
}

// ListInstitutions godoc
// @Summary      List institutions
// @Tags         institutions
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /institutions [get]
// @Security     BearerAuth
func (h *InstitutionHandler) List(c *gin.Context) {
	institutions, err := h.institutionUC.ListInstitutions(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if institutions == nil {
		institutions = []domain.Institution{}
	}

	response.Success(c, http.StatusOK, "Institutions retrieved", institutions)
}

// GetInstitution godoc
// @Summary      Get an institution
// @Tags         institutions
// @Produce      json
// @Param        id   path      int  true  "Institution ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /institutions/{id} [get]
// @Security     BearerAuth
func (h *InstitutionHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	inst, err := h.institutionUC.GetInstitution(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Institution retrieved", inst)
}

// RegisterInstitution godoc
// @Summary      Register an institution (admin)
// @Tags         institutions
// @Accept       json
// @Produce      json
// @Param        institution  body      RegisterInstitutionRequest  true  "Institution JSON"
// @Success      201          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      409          {object}  response.Response
// @Router       /institutions [post]
// @Security     BearerAuth
func (h *InstitutionHandler) Register(c *gin.Context) {
	var req RegisterInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	inst := &domain.Institution{
		Name:       req.Name,
		Code:       req.Code,
		City:       req.City,
		Registered: true,
	}
	if req.Registered != nil {
		inst.Registered = *req.Registered
	}
	if err := h.institutionUC.RegisterInstitution(c.Request.Context(), inst); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Institution registered", inst)
}
