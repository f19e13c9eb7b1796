package httpapi

import "net/http"

func (a *API) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Dashboard.Stats(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, stats)
}

func (a *API) recentActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := a.Dashboard.RecentActivity(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, activity)
}

// dashboardHealth always answers 200; the report carries the verdict.
func (a *API) dashboardHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, a.Dashboard.Health(r.Context()))
}
