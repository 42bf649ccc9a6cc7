package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/fairshare/internal/domain/ranking"
	"github.com/okian/fairshare/internal/domain/tree"
)

// SolveDependencies defines the interface for solve operations.
type SolveDependencies interface {
	Solve(ctx context.Context, data []byte) (*ranking.Set, error)
}

// SolveHandler handles solve requests.
type SolveHandler struct {
	deps         SolveDependencies
	maxBodyBytes int64
	maxLimit     int
}

// NewSolveHandler creates a new solve handler.
func NewSolveHandler(deps SolveDependencies, maxBodyBytes int64, maxLimit int) *SolveHandler {
	return &SolveHandler{
		deps:         deps,
		maxBodyBytes: maxBodyBytes,
		maxLimit:     maxLimit,
	}
}

// solveResponse is the body of a successful POST /solve.
type solveResponse struct {
	// Count is the number of scored leaves, which may exceed len(Results)
	// when a limit is given.
	Count   int              `json:"count"`
	Results []ranking.Ranked `json:"results"`
}

// HandleSolve handles POST /solve[?limit=N] requests. The body is a
// {"root": ...} tree document; the response lists leaves by descending score.
func (h *SolveHandler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	limit, err := h.parseLimit(r)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, ErrLimitExceeded) {
			code = "limit_exceeded"
		}
		writeError(w, http.StatusBadRequest, code, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", ErrBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	set, err := h.deps.Solve(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, tree.ErrParse):
			writeError(w, http.StatusBadRequest, "parse_error", err)
		case errors.Is(err, ranking.ErrDomain):
			writeError(w, http.StatusUnprocessableEntity, "domain_error", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "cancelled", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	resp := solveResponse{Count: set.Len()}
	if limit > 0 {
		resp.Results, err = set.TopN(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
	} else {
		resp.Results = set.Drain()
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseLimit returns 0 when no limit was requested.
func (h *SolveHandler) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest)
	}
	if n > h.maxLimit {
		return 0, fmt.Errorf("%w: %d > %d", ErrLimitExceeded, n, h.maxLimit)
	}
	return n, nil
}
