package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (a *API) listProjects(w http.ResponseWriter, r *http.Request) {
	filter := models.ProjectFilter{
		Status:       r.URL.Query().Get("status"),
		FeaturedOnly: queryBool(r, "featured"),
		Limit:        queryInt(r, "limit", 0),
	}
	projects, err := a.Projects.List(r.Context(), filter)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	list(w, projects)
}

func (a *API) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := a.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, p)
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	var in services.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.Projects.Create(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	created(w, "Project created successfully", p)
}

func (a *API) updateProject(w http.ResponseWriter, r *http.Request) {
	var in services.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.Projects.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Project updated successfully", p)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := a.Projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Project deleted successfully", nil)
}

func (a *API) uploadProjectImage(w http.ResponseWriter, r *http.Request) {
	in, err := readUpload(w, r, "image", models.AssetImage)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	p, asset, err := a.Projects.UploadImage(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Project image uploaded successfully", map[string]any{
		"project": p,
		"image":   asset,
	})
}

func (a *API) projectSettings(w http.ResponseWriter, r *http.Request) {
	s, err := a.Projects.Settings(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, s)
}

func (a *API) updateProjectSettings(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectsSettings
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.Projects.UpdateSettings(r.Context(), &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Projects settings updated successfully", s)
}

func (a *API) listSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := a.Skills.List(r.Context(), r.URL.Query().Get("category"), queryInt(r, "limit", 0))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	list(w, skills)
}

func (a *API) getSkill(w http.ResponseWriter, r *http.Request) {
	s, err := a.Skills.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, s)
}

func (a *API) createSkill(w http.ResponseWriter, r *http.Request) {
	var in services.SkillInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.Skills.Create(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	created(w, "Skill category created successfully", s)
}

func (a *API) updateSkill(w http.ResponseWriter, r *http.Request) {
	var in services.SkillInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.Skills.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Skill category updated successfully", s)
}

func (a *API) deleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := a.Skills.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Skill category deleted successfully", nil)
}

type technologiesRequest struct {
	Technologies []string `json:"technologies"`
}

func (a *API) additionalTechnologies(w http.ResponseWriter, r *http.Request) {
	techs, err := a.Skills.AdditionalTechnologies(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, techs)
}

func (a *API) updateAdditionalTechnologies(w http.ResponseWriter, r *http.Request) {
	var req technologiesRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	techs, err := a.Skills.SetAdditionalTechnologies(r.Context(), req.Technologies)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Additional technologies updated successfully", techs)
}

func (a *API) about(w http.ResponseWriter, r *http.Request) {
	about, err := a.Site.About(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, about)
}

func (a *API) updateAbout(w http.ResponseWriter, r *http.Request) {
	var in models.About
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	about, err := a.Site.UpdateAbout(r.Context(), &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "About section updated successfully", about)
}

func (a *API) footer(w http.ResponseWriter, r *http.Request) {
	footer, err := a.Site.Footer(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, footer)
}

func (a *API) updateFooter(w http.ResponseWriter, r *http.Request) {
	var in models.Footer
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	footer, err := a.Site.UpdateFooter(r.Context(), &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Footer updated successfully", footer)
}
