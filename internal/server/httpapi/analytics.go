package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

func (a *API) trackView(w http.ResponseWriter, r *http.Request) {
	var in services.ViewInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	if in.Referrer == "" {
		in.Referrer = r.Referer()
	}
	v, err := a.Analytics.TrackView(r.Context(), in, clientFrom(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "View tracked successfully", map[string]any{"isUnique": v.IsUnique})
}

func (a *API) analytics(w http.ResponseWriter, r *http.Request) {
	report, err := a.Analytics.Report(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, report)
}
