package server

import (
	"log/slog"
	"net/http"

	"github.com/raterudder/rooftopsolar/pkg/log"
	"github.com/raterudder/rooftopsolar/pkg/recommend"
	"github.com/raterudder/rooftopsolar/pkg/solar"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"github.com/raterudder/rooftopsolar/pkg/validate"
)

type analyzeRequest struct {
	Latitude           float64            `json:"latitude"`
	Longitude          float64            `json:"longitude"`
	Roof               *types.RoofMetrics `json:"roof_metrics"`
	PanelType          types.PanelType    `json:"panel_type"`
	ElectricityRate    float64            `json:"electricity_rate"`
	InstallCostPerWatt float64            `json:"installation_cost_per_watt"`
}

type analyzeResponse struct {
	AnalysisID      string                     `json:"analysis_id"`
	Result          types.SolarPotentialResult `json:"result"`
	SolarData       types.SolarDataSeries      `json:"solar_data"`
	Recommendations recommend.Recommendations  `json:"recommendations"`
	Warnings        []string                   `json:"warnings"`
}

// handleAnalyze looks up the irradiance for a location, calculates the
// potential of the roof there and writes recommendations for it.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := s.newID()
	ctx := log.WithAttrs(r.Context(), slog.String("analysisID", id))

	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode analyze request", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Roof == nil {
		writeJSONError(w, "roof_metrics is required", http.StatusBadRequest)
		return
	}
	req.ElectricityRate, req.InstallCostPerWatt = withDefaults(req.ElectricityRate, req.InstallCostPerWatt)
	for _, err := range []error{
		validate.Coordinates(req.Latitude, req.Longitude),
		validate.Area(req.Roof.TotalArea),
		validate.Rate(req.ElectricityRate),
		validate.Cost(req.InstallCostPerWatt),
	} {
		if err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	series, err := s.irradiance.GetSolarData(ctx, req.Latitude, req.Longitude)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get solar data", slog.Any("error", err))
		writeJSONError(w, "failed to get solar data", http.StatusBadGateway)
		return
	}

	res := s.calculator.CalculatePotential(ctx, solar.Request{
		Roof:               *req.Roof,
		Solar:              series,
		PanelType:          req.PanelType,
		ElectricityRate:    req.ElectricityRate,
		InstallCostPerWatt: req.InstallCostPerWatt,
	})

	warnings := validate.CalculationResult(res)
	if res.Fallback {
		warnings = append(warnings, "the roof could not be analyzed so a conservative estimate is shown")
	}
	if series.DataQuality == types.DataQualityEstimated {
		warnings = append(warnings, "solar data was estimated from latitude")
	}
	if warnings == nil {
		warnings = []string{}
	}

	recs, err := s.narrator.Recommend(ctx, recommend.Input{
		Roof:      *req.Roof,
		Result:    res,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to generate recommendations", slog.Any("error", err))
		recs, _ = recommend.Template{}.Recommend(ctx, recommend.Input{
			Roof:      *req.Roof,
			Result:    res,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		})
	}

	log.Ctx(ctx).InfoContext(
		ctx,
		"analyzed roof",
		slog.Float64("latitude", req.Latitude),
		slog.Float64("longitude", req.Longitude),
		slog.Float64("systemSizeKW", res.SystemSizeKW),
		slog.Bool("fallback", res.Fallback),
		slog.Int("warnings", len(warnings)),
	)

	writeJSON(w, analyzeResponse{
		AnalysisID:      id,
		Result:          res,
		SolarData:       series,
		Recommendations: recs,
		Warnings:        warnings,
	})
}
