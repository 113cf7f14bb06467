package web

import (
	"embed"
	"html/template"
	"net/http"

	"go-application-form/internal/delivery/http/middleware"
	"go-application-form/internal/domain"
	"go-application-form/internal/sink"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// ApplyPath is where the server-rendered application form lives
const ApplyPath = "/apply"

//go:embed templates/*.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Action    string
	CSRFToken string
	Values    domain.ApplicationRecord
	Errors    domain.ErrorSet
	Locations []string
	Genders   []string
	Skills    []string
	Submitted bool
	Message   string
}

type FormPage struct {
	newForm func() domain.ApplicationForm
}

// NewFormPage registers the HTML form. Each POST replays the posted values
// into a fresh controller from newForm and submits it.
func NewFormPage(group *gin.RouterGroup, newForm func() domain.ApplicationForm, submitLimit gin.HandlerFunc) {
	page := &FormPage{newForm: newForm}

	group.GET(ApplyPath, page.Show)
	group.POST(ApplyPath, submitLimit, page.Submit)
}

func (p *FormPage) Show(c *gin.Context) {
	p.render(c, http.StatusOK, domain.ApplicationRecord{}, domain.ErrorSet{}, false)
}

func (p *FormPage) Submit(c *gin.Context) {
	form := p.newForm()

	for _, name := range domain.FieldOrder {
		var err error
		switch name {
		case domain.FieldSkills:
			for _, skill := range c.PostFormArray(name) {
				if err = form.UpdateField(name, skill, domain.KindChecked); err != nil {
					break
				}
			}
		case domain.FieldDeclaration:
			kind := domain.KindUnchecked
			if c.PostForm(name) != "" {
				kind = domain.KindChecked
			}
			err = form.UpdateField(name, "", kind)
		default:
			err = form.UpdateField(name, c.PostForm(name), domain.KindScalar)
		}
		if err != nil {
			c.Error(err)
			return
		}
	}

	ok, errs, err := form.Submit(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusUnprocessableEntity
	}
	p.render(c, status, form.Values(), errs, ok)
}

func (p *FormPage) render(c *gin.Context, status int, values domain.ApplicationRecord, errs domain.ErrorSet, submitted bool) {
	data := pageData{
		Action:    ApplyPath,
		CSRFToken: c.GetString(middleware.CSRFContextKey),
		Values:    values,
		Errors:    errs,
		Locations: domain.LocationOptions,
		Genders:   domain.GenderOptions,
		Skills:    domain.SkillOptions,
		Submitted: submitted,
	}
	if submitted {
		data.Message = sink.Acknowledgment
	}

	c.Render(status, render.HTML{Template: formTemplate, Name: "form", Data: data})
}
