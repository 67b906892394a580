package http

import (
	"net/http"
	"strconv"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"go.uber.org/zap"
)

type ElectionHandler struct {
	swing        ports.SwingService
	demographics ports.DemographicService
	logger       *zap.Logger
}

func NewElectionHandler(swing ports.SwingService, demographics ports.DemographicService, logger *zap.Logger) *ElectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ElectionHandler{
		swing:        swing,
		demographics: demographics,
		logger:       logger,
	}
}

func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GetSwing godoc
// @Summary      County swing between two elections
// @Tags         elections
// @Produce      json
// @Param        fromYear  query  int     true   "Earlier election year"
// @Param        toYear    query  int     true   "Later election year"
// @Param        state     query  string  false  "Two-letter state code"
// @Success      200
// @Failure      400
// @Router       /api/elections/swing [get]
func (h *ElectionHandler) GetSwing(w http.ResponseWriter, r *http.Request) {
	fromYear, ok := queryInt(r, "fromYear")
	if !ok {
		writeError(w, http.StatusBadRequest, "fromYear must be an integer election year")
		return
	}
	toYear, ok := queryInt(r, "toYear")
	if !ok {
		writeError(w, http.StatusBadRequest, "toYear must be an integer election year")
		return
	}

	payload, err := h.swing.GetSwing(r.Context(), ports.SwingQuery{
		FromYear: fromYear,
		ToYear:   toYear,
		State:    r.URL.Query().Get("state"),
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeRaw(w, http.StatusOK, payload)
}

type electionYearsResponse struct {
	Modern     []int `json:"modern"`
	Historical []int `json:"historical"`
}

func (h *ElectionHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, electionYearsResponse{
		Modern:     domain.ModernElectionYears(),
		Historical: domain.HistoricalElectionYears(),
	})
}

// GetDemographics godoc
// @Summary      County demographic snapshot
// @Tags         demographics
// @Produce      json
// @Param        year   query  int     true   "Snapshot year"
// @Param        state  query  string  false  "Two-letter state code"
// @Success      200
// @Failure      400
// @Router       /api/demographics [get]
func (h *ElectionHandler) GetDemographics(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year")
	if !ok {
		writeError(w, http.StatusBadRequest, "year must be an integer")
		return
	}

	payload, err := h.demographics.GetDemographics(r.Context(), ports.DemographicQuery{
		Year:  year,
		State: r.URL.Query().Get("state"),
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeRaw(w, http.StatusOK, payload)
}

func (h *ElectionHandler) fail(w http.ResponseWriter, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("election request failed", zap.Error(err))
	}
	writeError(w, status, message)
}
