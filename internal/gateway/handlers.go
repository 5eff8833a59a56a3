package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/sajtmaskin/prompt-gateway/internal/engine"
	"github.com/sajtmaskin/prompt-gateway/internal/monitoring"
	"github.com/sajtmaskin/prompt-gateway/internal/tokens"
)

const maxRequestBody = 1 << 20 // 1 MiB, well above the 50k char system cap

// optimizeResponse is the JSON shape of POST /v1/optimize.
type optimizeResponse struct {
	FinalMessage    string              `json:"finalMessage"`
	Meta            engine.StrategyMeta `json:"meta"`
	EstimatedTokens int                 `json:"estimatedTokens"`
}

func (gw *Gateway) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if !gjson.ValidBytes(body) {
		http.Error(w, "request body must be valid JSON", http.StatusBadRequest)
		return
	}

	// Missing fields take their defaults; only malformed JSON is an error.
	in := engine.OptimizeInput{
		Message:          gjson.GetBytes(body, "message").String(),
		BuildMethod:      gjson.GetBytes(body, "buildMethod").String(),
		BuildIntent:      gjson.GetBytes(body, "buildIntent").String(),
		IsFirstPrompt:    gjson.GetBytes(body, "isFirstPrompt").Bool(),
		AttachmentsCount: int(gjson.GetBytes(body, "attachmentsCount").Int()),
		HardCap:          int(gjson.GetBytes(body, "hardCap").Int()),
	}
	if v := gjson.GetBytes(body, "planModeFirstPromptEnabled"); v.Exists() {
		in.PlanModeFirstPromptEnabled = v.Bool()
	} else {
		in.PlanModeFirstPromptEnabled = gw.cfg.Engine.PlanModeFirstPrompt
	}

	res := engine.Optimize(in)
	requestID := monitoring.RequestIDFromContext(r.Context())

	gw.metrics.RecordOptimization(res.Meta)
	if gw.decLog != nil {
		if err := gw.decLog.Log(requestID, in.Message, res.Meta); err != nil {
			log.Warn().Err(err).Msg("decision log write failed")
		}
	}
	if gw.store != nil {
		if err := gw.store.RecordDecision(r.Context(), requestID, res.Meta); err != nil {
			log.Warn().Err(err).Msg("decision store write failed")
		}
	}

	writeJSON(w, http.StatusOK, optimizeResponse{
		FinalMessage:    res.FinalMessage,
		Meta:            res.Meta,
		EstimatedTokens: tokens.Estimate(res.FinalMessage),
	})
}

func (gw *Gateway) handleOptimizations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if gw.store == nil {
		http.Error(w, "decision store is not enabled", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			http.Error(w, "limit must be an integer between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := gw.store.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to read decisions")
		http.Error(w, "failed to read decisions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(records),
		"optimizations": records,
	})
}

func (gw *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, gw.metrics.Snapshot())
}

func (gw *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
