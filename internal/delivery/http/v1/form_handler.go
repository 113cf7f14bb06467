package v1

import (
	"net/http"

	"go-application-form/internal/delivery/http/response"
	"go-application-form/internal/domain"
	"go-application-form/internal/sink"
	"go-application-form/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	formUC domain.FormSessionUsecase
}

// UpdateFieldsRequest carries field-change events applied in order
type UpdateFieldsRequest struct {
	Updates []domain.FieldUpdate `json:"updates" binding:"required,min=1,dive"`
}

// NewFormHandler registers the application form routes
func NewFormHandler(public *gin.RouterGroup, formUC domain.FormSessionUsecase, submitLimit gin.HandlerFunc) {
	handler := &FormHandler{
		formUC: formUC,
	}

	public.GET("/form/options", handler.GetOptions)

	forms := public.Group("/forms")
	forms.POST("", handler.CreateForm)
	forms.GET("/:id", handler.GetForm)
	forms.PATCH("/:id/fields", handler.UpdateFields)
	forms.POST("/:id/validate", handler.ValidateForm)
	forms.POST("/:id/submit", submitLimit, handler.SubmitForm)
	forms.POST("/:id/reset", handler.ResetForm)
	forms.DELETE("/:id", handler.DeleteForm)
}

// GetOptions godoc
// @Summary      Form options
// @Description  Field order and the selectable values for location, gender, employment and skills
// @Tags         forms
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.FormOptions}
// @Router       /form/options [get]
func (h *FormHandler) GetOptions(c *gin.Context) {
	response.Success(c, http.StatusOK, "Form options", h.formUC.Options())
}

// CreateForm godoc
// @Summary      Start an application
// @Description  Opens an empty application form session
// @Tags         forms
// @Produce      json
// @Success      201  {object}  response.Response{data=domain.FormSnapshot}
// @Failure      503  {object}  response.Response
// @Router       /forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	snap, err := h.formUC.Create(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application form created", snap)
}

// GetForm godoc
// @Summary      Get an application
// @Description  Current values and the errors from the last validation
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  response.Response{data=domain.FormSnapshot}
// @Failure      404  {object}  response.Response
// @Router       /forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	snap, err := h.formUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application form retrieved", snap)
}

// UpdateFields godoc
// @Summary      Update fields
// @Description  Applies field-change events in order. Does not validate.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Form ID"
// @Param        updates  body      UpdateFieldsRequest  true  "Field updates"
// @Success      200      {object}  response.Response{data=domain.FormSnapshot}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /forms/{id}/fields [patch]
func (h *FormHandler) UpdateFields(c *gin.Context) {
	var req UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid field updates: " + err.Error()))
		return
	}

	snap, err := h.formUC.UpdateFields(c.Request.Context(), c.Param("id"), req.Updates)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application form updated", snap)
}

// ValidateForm godoc
// @Summary      Validate an application
// @Description  Recomputes every field error and replaces the stored set
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  response.Response{data=domain.ValidationResult}
// @Failure      404  {object}  response.Response
// @Router       /forms/{id}/validate [post]
func (h *FormHandler) ValidateForm(c *gin.Context) {
	result, err := h.formUC.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application form validated", result)
}

// SubmitForm godoc
// @Summary      Submit an application
// @Description  Validates the form and, when valid, hands the record to the configured sink
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  response.Response{data=domain.FormSnapshot}
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response{error=domain.ErrorSet}
// @Failure      429  {object}  response.Response
// @Router       /forms/{id}/submit [post]
func (h *FormHandler) SubmitForm(c *gin.Context) {
	snap, result, err := h.formUC.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if !result.Valid {
		response.Error(c, http.StatusUnprocessableEntity, "Please correct the highlighted fields", result.Errors)
		return
	}
	response.Success(c, http.StatusOK, sink.Acknowledgment, snap)
}

// ResetForm godoc
// @Summary      Reset an application
// @Description  Clears every value and error
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  response.Response{data=domain.FormSnapshot}
// @Failure      404  {object}  response.Response
// @Router       /forms/{id}/reset [post]
func (h *FormHandler) ResetForm(c *gin.Context) {
	snap, err := h.formUC.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application form reset", snap)
}

// DeleteForm godoc
// @Summary      Discard an application
// @Tags         forms
// @Param        id   path  string  true  "Form ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	if err := h.formUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
