package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/internal/cache"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/iwvelando/mortgage-analytics/pkg/output"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger      *zap.Logger
	engine      *analytics.Engine
	cache       cache.Cache
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the analytics API. A nil
// engine uses the default assumptions; a nil cache disables surface caching.
func NewHandler(logger *zap.Logger, engine *analytics.Engine, store cache.Cache, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = analytics.NewEngine(logger, scenario.DefaultAssumptions, 0)
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		engine:      engine,
		cache:       store,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics", h.handleAnalytics)
	mux.HandleFunc("/api/surface", h.handleSurface)
	mux.HandleFunc("/api/scenarios", h.handleScenarios)
	mux.HandleFunc("/api/config/export", h.handleConfigExport)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type analyticsRequest struct {
	analytics.Input
	Scenarios []string `json:"scenarios"`
}

type analyticsResponse struct {
	Scenarios []string            `json:"scenarios"`
	Rows      []analytics.Row     `json:"rows"`
	Display   []output.DisplayRow `json:"display"`
	Warnings  []string            `json:"warnings,omitempty"`
	Duration  string              `json:"duration"`
}

type surfaceRequest struct {
	ServiceCharge      float64  `json:"serviceCharge"`
	AdditionalExpenses float64  `json:"additionalExpenses"`
	Term               int      `json:"term"`
	Scenarios          []string `json:"scenarios"`
	MinimumCashflow    *float64 `json:"minimumCashflow,omitempty"`
	ViableOnly         bool     `json:"viableOnly"`
}

type surfaceResponse struct {
	Points   []analytics.SurfacePoint `json:"points"`
	Summary  []output.SurfaceSummary  `json:"summary"`
	Total    int                      `json:"total"`
	Cached   bool                     `json:"cached"`
	Warnings []string                 `json:"warnings,omitempty"`
	Duration string                   `json:"duration"`
}

// surfaceKey is the canonical form of a surface request for caching. Viability
// filtering happens after the cache lookup, so it is not part of the key.
type surfaceKey struct {
	ServiceCharge      float64              `json:"serviceCharge"`
	AdditionalExpenses float64              `json:"additionalExpenses"`
	Term               int                  `json:"term"`
	Scenarios          []string             `json:"scenarios"`
	Assumptions        scenario.Assumptions `json:"assumptions"`
	Grid               analytics.Grid       `json:"grid"`
}

type scenarioInfo struct {
	Label          string  `json:"label"`
	BuyToLet       bool    `json:"buyToLet"`
	InterestOnly   bool    `json:"interestOnly"`
	LimitedCompany bool    `json:"limitedCompany"`
	DepositPercent float64 `json:"depositPercent"`
	InterestRate   float64 `json:"interestRate"`
	LendersFee     float64 `json:"lendersFee"`
}

func (h *handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalytics"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req analyticsRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	selected, warnings := selection(req.Scenarios)
	rows, err := h.engine.Compute(req.Input, selected)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("analytics computed",
		zap.String("op", op),
		zap.Int("scenarios", len(rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, analyticsResponse{
		Scenarios: labels(selected),
		Rows:      rows,
		Display:   output.Display(rows),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleSurface(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSurface"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req := surfaceRequest{
		ServiceCharge: constants.DefaultServiceCharge,
		Term:          constants.DefaultTerm,
	}
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	selected, warnings := selection(req.Scenarios)
	sreq := analytics.SurfaceRequest{
		Grid:               analytics.DefaultGrid(),
		ServiceCharge:      req.ServiceCharge,
		AdditionalExpenses: req.AdditionalExpenses,
		Term:               req.Term,
		Scenarios:          selected,
	}

	key := h.surfaceCacheKey(sreq)
	points, cached := h.cachedSurface(r, key, op)
	if !cached {
		var err error
		points, err = h.engine.Surface(r.Context(), sreq)
		if err != nil {
			h.respondComputeError(w, err, op)
			return
		}
		h.storeSurface(r, key, points, op)
	}

	total := len(points)
	if req.ViableOnly || req.MinimumCashflow != nil {
		minimum := constants.DefaultMinimumCashflow
		if req.MinimumCashflow != nil {
			minimum = *req.MinimumCashflow
		}
		points = analytics.FilterViable(points, minimum)
	}
	if points == nil {
		points = []analytics.SurfacePoint{}
	}

	elapsed := time.Since(start)
	h.logger.Info("surface computed",
		zap.String("op", op),
		zap.Int("points", len(points)),
		zap.Int("total", total),
		zap.Bool("cached", cached),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, surfaceResponse{
		Points:   points,
		Summary:  output.SummarizeSurface(points),
		Total:    total,
		Cached:   cached,
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) surfaceCacheKey(req analytics.SurfaceRequest) string {
	if h.cache == nil {
		return ""
	}
	canonical, err := json.Marshal(surfaceKey{
		ServiceCharge:      req.ServiceCharge,
		AdditionalExpenses: req.AdditionalExpenses,
		Term:               req.Term,
		Scenarios:          labels(req.Scenarios),
		Assumptions:        h.engine.Assumptions(),
		Grid:               req.Grid,
	})
	if err != nil {
		return ""
	}
	return cache.Key(canonical)
}

func (h *handler) cachedSurface(r *http.Request, key, op string) ([]analytics.SurfacePoint, bool) {
	if key == "" {
		return nil, false
	}
	data, ok, err := h.cache.Get(r.Context(), key)
	if err != nil {
		h.logger.Warn("surface cache lookup failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var points []analytics.SurfacePoint
	if err := json.Unmarshal(data, &points); err != nil {
		h.logger.Warn("discarding unreadable cached surface",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	return points, true
}

func (h *handler) storeSurface(r *http.Request, key string, points []analytics.SurfacePoint, op string) {
	if key == "" {
		return
	}
	data, err := json.Marshal(points)
	if err == nil {
		err = h.cache.Set(r.Context(), key, data)
	}
	if err != nil {
		h.logger.Warn("failed to cache surface",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	assumptions := h.engine.Assumptions()
	all := scenario.All()
	infos := make([]scenarioInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, scenarioInfo{
			Label:          s.Label(),
			BuyToLet:       s.BuyToLet,
			InterestOnly:   s.InterestOnly,
			LimitedCompany: s.LimitedCompany,
			DepositPercent: assumptions.DepositPercent(s),
			InterestRate:   assumptions.InterestRate(s),
			LendersFee:     assumptions.LendersFee(s),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"labels":    scenario.AllLabels(),
		"scenarios": infos,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if !h.decodeBody(w, r, &payload, op) {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// configKeyOrder lists the top-level sections in the order they are written
// to exported configuration files. Remaining keys follow alphabetically.
var configKeyOrder = []string{"logging", "output", "property", "scenarios", "assumptions", "surface"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// selection expands requested labels and reports labels that were ignored or
// axis groups left empty. Omitting scenarios selects every one; an explicit
// empty list selects none.
func selection(requested []string) ([]scenario.Scenario, []string) {
	if requested == nil {
		return scenario.All(), nil
	}

	var warnings []string
	for _, label := range scenario.UnknownLabels(requested) {
		warnings = append(warnings, fmt.Sprintf("unknown scenario label %q ignored", label))
	}
	for _, group := range scenario.MissingGroups(requested) {
		warnings = append(warnings, fmt.Sprintf("no %s selected; no scenarios will be computed", group))
	}
	return scenario.ExpandSelection(requested), warnings
}

func labels(scenarios []scenario.Scenario) []string {
	out := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, s.Label())
	}
	return out
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondComputeError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	if errors.Is(err, analytics.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	h.respondError(w, status, err.Error(), op)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("analytics request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
