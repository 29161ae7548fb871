package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/audit"
)

// StatsReader is satisfied by *audit.Service.
type StatsReader interface {
	Stats(ctx context.Context) (audit.Stats, error)
	Recent(ctx context.Context, limit int) ([]*audit.Event, error)
}

type StatsHandler struct {
	reader StatsReader
}

func NewStatsHandler(reader StatsReader) *StatsHandler {
	return &StatsHandler{reader: reader}
}

type statsResponse struct {
	audit.Stats
	FallbackRate float64        `json:"fallback_rate"`
	Recent       []*audit.Event `json:"recent,omitempty"`
}

const maxRecentLimit = 100

// Stats reports aggregate outcome counts. ?recent=N adds the N newest events.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.reader.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "stats unavailable")
		return
	}
	resp := statsResponse{Stats: st, FallbackRate: st.FallbackRate()}

	if n, convErr := strconv.Atoi(r.URL.Query().Get("recent")); convErr == nil && n > 0 {
		resp.Recent, err = h.reader.Recent(r.Context(), min(n, maxRecentLimit))
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "stats unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
