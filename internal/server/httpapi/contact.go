package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (a *API) submitContact(w http.ResponseWriter, r *http.Request) {
	var in services.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.Contacts.Submit(r.Context(), in, clientFrom(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	created(w, "Message sent successfully", map[string]any{
		"id":        c.ID,
		"createdAt": c.CreatedAt,
	})
}

func (a *API) contactSettings(w http.ResponseWriter, r *http.Request) {
	s, err := a.Contacts.Settings(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, s)
}

func (a *API) updateContactSettings(w http.ResponseWriter, r *http.Request) {
	var in models.ContactSettings
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.Contacts.UpdateSettings(r.Context(), &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Contact settings updated successfully", s)
}

func (a *API) listContacts(w http.ResponseWriter, r *http.Request) {
	p, err := a.Contacts.List(r.Context(), r.URL.Query().Get("status"), queryInt(r, "page", 1), queryInt(r, "limit", 0))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	paged(w, p.Items, pageOf(p))
}

func (a *API) getContact(w http.ResponseWriter, r *http.Request) {
	c, err := a.Contacts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, c)
}

func (a *API) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	var in services.StatusInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.Contacts.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Contact status updated successfully", c)
}

func (a *API) deleteContact(w http.ResponseWriter, r *http.Request) {
	if err := a.Contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Contact deleted successfully", nil)
}
