package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/healthsync/healthsync/internal/server/measurements"
	"github.com/healthsync/healthsync/internal/server/models"
	"github.com/healthsync/healthsync/internal/server/repositories/records"
	"github.com/healthsync/healthsync/internal/server/services"
)

// HealthHandler serves measurement records for the authenticated account.
type HealthHandler struct {
	records *services.RecordService
}

func NewHealthHandler(records *services.RecordService) *HealthHandler {
	return &HealthHandler{records: records}
}

type createRecordRequest struct {
	Type       string  `json:"measurement_type"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Notes      string  `json:"notes"`
	MeasuredAt *string `json:"measured_at"`
}

type recordView struct {
	ID         string    `json:"id"`
	Type       string    `json:"measurement_type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Notes      string    `json:"notes,omitempty"`
	MeasuredAt time.Time `json:"measured_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func newRecordView(rec *models.HealthRecord) recordView {
	return recordView{
		ID:         rec.ID,
		Type:       string(rec.Type),
		Value:      rec.Value,
		Unit:       rec.Unit,
		Notes:      rec.Notes,
		MeasuredAt: rec.MeasuredAt,
		CreatedAt:  rec.CreatedAt,
	}
}

func newRecordViews(recs []*models.HealthRecord) []recordView {
	views := make([]recordView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, newRecordView(rec))
	}
	return views
}

func (h *HealthHandler) HandleCreateRecord(w http.ResponseWriter, r *http.Request) error {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		return ErrUnauthorized("")
	}

	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ErrBadRequest("invalid request payload")
	}
	defer r.Body.Close()

	kind, err := measurements.ParseKind(req.Type)
	if err != nil {
		return ErrBadRequest(err.Error())
	}

	spec := measurements.Spec{
		Type:  kind,
		Value: req.Value,
		Unit:  req.Unit,
		Notes: req.Notes,
	}
	if req.MeasuredAt != nil && *req.MeasuredAt != "" {
		measuredAt, err := time.Parse(time.RFC3339, *req.MeasuredAt)
		if err != nil {
			return ErrBadRequest("measured_at must be an RFC 3339 timestamp")
		}
		spec.MeasuredAt = measuredAt
	}

	record, err := h.records.Create(r.Context(), account.ID, spec)
	if err != nil {
		return err
	}

	return RespondWithJSON(w, http.StatusCreated, newRecordView(record))
}

func (h *HealthHandler) HandleQuickAdd(w http.ResponseWriter, r *http.Request) error {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		return ErrUnauthorized("")
	}

	var q measurements.QuickAdd
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		return ErrBadRequest("invalid request payload")
	}
	defer r.Body.Close()

	created, err := h.records.QuickAdd(r.Context(), account.ID, q)
	if err != nil {
		return err
	}

	return RespondWithJSON(w, http.StatusCreated, newRecordViews(created))
}

func (h *HealthHandler) HandleListRecords(w http.ResponseWriter, r *http.Request) error {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		return ErrUnauthorized("")
	}

	filter, err := parseListFilter(r)
	if err != nil {
		return err
	}

	recs, err := h.records.List(r.Context(), account.ID, filter)
	if err != nil {
		return err
	}

	return RespondWithJSON(w, http.StatusOK, newRecordViews(recs))
}

func parseListFilter(r *http.Request) (records.ListFilter, error) {
	var filter records.ListFilter
	query := r.URL.Query()

	if raw := query.Get("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			kind, err := measurements.ParseKind(strings.TrimSpace(part))
			if err != nil {
				return filter, ErrBadRequest(err.Error())
			}
			filter.Types = append(filter.Types, kind)
		}
	}

	if raw := query.Get("start_date"); raw != "" {
		start, err := parseDateParam(raw)
		if err != nil {
			return filter, ErrBadRequest("start_date must be a date or RFC 3339 timestamp")
		}
		filter.Start = &start
	}
	if raw := query.Get("end_date"); raw != "" {
		end, err := parseDateParam(raw)
		if err != nil {
			return filter, ErrBadRequest("end_date must be a date or RFC 3339 timestamp")
		}
		filter.End = &end
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, ErrBadRequest("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, ErrBadRequest("offset must be an integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, raw)
}

type dateRangeView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type summaryView struct {
	TotalRecords          int64          `json:"total_records"`
	MeasurementTypesCount int64          `json:"measurement_types_count"`
	DateRange             *dateRangeView `json:"date_range"`
	LatestMeasurements    []recordView   `json:"latest_measurements"`
}

func (h *HealthHandler) HandleSummary(w http.ResponseWriter, r *http.Request) error {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		return ErrUnauthorized("")
	}

	summary, err := h.records.Summarize(r.Context(), account.ID)
	if err != nil {
		return err
	}

	view := summaryView{
		TotalRecords:          summary.TotalRecords,
		MeasurementTypesCount: summary.MeasurementTypesCount,
		LatestMeasurements:    newRecordViews(summary.LatestMeasurements),
	}
	if summary.DateRange != nil {
		view.DateRange = &dateRangeView{
			Start: summary.DateRange.Start,
			End:   summary.DateRange.End,
		}
	}

	return RespondWithJSON(w, http.StatusOK, view)
}
