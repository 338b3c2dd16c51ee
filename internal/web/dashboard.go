package web

import (
	"net/http"

	"github.com/omnia-aid/omnia/internal/dashboard"
)

const chartCanvas = "monthlyDonationsChart"

// Dashboard renders the placeholder figures and the donations chart. The
// panel holds the chart only for the duration of the request; refresh=1
// replaces it once before rendering.
func (h *ConsoleHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	panel := dashboard.NewPanel(h.renderer, chartCanvas)
	defer panel.Unmount()

	series := dashboard.MonthlyDonations()
	inst, err := panel.Mount(series)
	if err == nil && r.URL.Query().Get("refresh") == "1" {
		inst, err = panel.Refresh(series)
	}

	data := h.page(r, "Tableau de bord")
	snap := dashboard.Placeholder(h.now())
	data["Snapshot"] = snap
	data["Cards"] = snap.Cards()
	data["Canvas"] = chartCanvas
	data["Chart"] = []byte(nil)
	if err != nil {
		h.logger.Warn("chart unavailable", "error", err)
	} else {
		data["Chart"] = inst.Config()
	}
	h.render(w, http.StatusOK, "dashboard.html", data)
}
