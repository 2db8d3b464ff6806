package server

import (
	"log/slog"
	"net/http"

	"github.com/raterudder/rooftopsolar/pkg/log"
	"github.com/raterudder/rooftopsolar/pkg/solar"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"github.com/raterudder/rooftopsolar/pkg/validate"
)

type potentialRequest struct {
	solar.Request
	// shadows Request.Roof so a missing object can be told apart from a
	// zero one
	Roof *types.RoofMetrics `json:"roof_metrics"`
}

func (s *Server) handlePotential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req potentialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode potential request", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.ElectricityRate, req.InstallCostPerWatt = withDefaults(req.ElectricityRate, req.InstallCostPerWatt)
	if err := validate.Rate(req.ElectricityRate); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Cost(req.InstallCostPerWatt); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Roof == nil {
		log.Ctx(ctx).ErrorContext(ctx, "potential request is missing roof metrics, using fallback")
		writeJSON(w, solar.Fallback(s.calculator.Catalog().Losses))
		return
	}
	req.Request.Roof = *req.Roof

	writeJSON(w, s.calculator.CalculatePotential(ctx, req.Request))
}
