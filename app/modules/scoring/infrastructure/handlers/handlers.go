package scoringhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application/export"
	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application/parsers"
	scoringservice "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/application"
	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultMaxUploadBytes caps scorecard uploads.
	DefaultMaxUploadBytes = 10 << 20

	scorecardField = "scorecard"
	holesField     = "holes"
	chartsField    = "charts"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	errMissingScorecard = errors.New("missing scorecard upload")
	errBadRequest       = errors.New("bad request")
)

// ScoringHandlers serves the scoring HTTP API.
type ScoringHandlers struct {
	service        scoringservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	maxUploadBytes int64
	defaultHoles   []int
}

// NewScoringHandlers creates a new ScoringHandlers instance. defaultHoles is used when a
// request leaves the holes field empty.
func NewScoringHandlers(
	service scoringservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	maxUploadBytes int64,
	defaultHoles []int,
) *ScoringHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &ScoringHandlers{
		service:        service,
		logger:         logger,
		tracer:         tracer,
		maxUploadBytes: maxUploadBytes,
		defaultHoles:   defaultHoles,
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// upload is a decoded scoring request.
type upload struct {
	filename string
	data     []byte
	holes    []int
	charts   bool
}

// HandleScore scores an uploaded scorecard and returns the tournament result as JSON.
func (h *ScoringHandlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HandleScore")
	defer span.End()

	req, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	span.SetAttributes(attribute.String("filename", req.filename))

	result, err := h.service.ScoreScorecard(ctx, req.filename, req.data, req.holes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode result", slog.Any("error", err))
	}
}

// HandleReport scores an uploaded scorecard and returns the XLSX report as an attachment.
func (h *ScoringHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HandleReport")
	defer span.End()

	req, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.ScoreScorecard(ctx, req.filename, req.data, req.holes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	report, err := h.service.Report(ctx, result, req.charts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ReportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report); err != nil {
		h.logger.WarnContext(ctx, "Failed to write report", slog.Any("error", err))
	}
}

// HandleHealth reports liveness.
func (h *ScoringHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *ScoringHandlers) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	if r.ContentLength > h.maxUploadBytes {
		return upload{}, &http.MaxBytesError{Limit: h.maxUploadBytes}
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if isTooLarge(err) {
			return upload{}, &http.MaxBytesError{Limit: h.maxUploadBytes}
		}
		return upload{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	file, header, err := r.FormFile(scorecardField)
	if err != nil {
		return upload{}, errMissingScorecard
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	holes := h.defaultHoles
	if raw := strings.TrimSpace(r.FormValue(holesField)); raw != "" {
		holes, err = parsers.ParseHoleList(raw)
		if err != nil {
			return upload{}, err
		}
	}

	var charts bool
	if raw := strings.TrimSpace(r.FormValue(chartsField)); raw != "" {
		charts, err = strconv.ParseBool(raw)
		if err != nil {
			return upload{}, fmt.Errorf("%w: charts must be true or false", errBadRequest)
		}
	}

	return upload{filename: header.Filename, data: data, holes: holes, charts: charts}, nil
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// statusFor maps service errors to HTTP statuses. Anything the caller can fix is a 400.
func statusFor(err error) (int, string) {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, scoringdomain.ErrStructural):
		return http.StatusBadRequest, "structural"
	case errors.Is(err, scoringdomain.ErrSelection):
		return http.StatusBadRequest, "selection"
	case errors.Is(err, scoringdomain.ErrInput):
		return http.StatusBadRequest, "input"
	case errors.Is(err, parsers.ErrUnsupportedFormat), errors.Is(err, parsers.ErrUnreadable):
		return http.StatusBadRequest, "format"
	case errors.Is(err, errMissingScorecard), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *ScoringHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Scoring request failed", slog.Any("error", err))
		msg = http.StatusText(status)
	} else {
		h.logger.WarnContext(r.Context(), "Scoring request rejected",
			slog.String("kind", kind),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Kind: kind})
}
