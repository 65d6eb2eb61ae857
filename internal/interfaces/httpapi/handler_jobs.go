package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/fplmetric/fplmetric/internal/usecase"
)

type collectJobRequest struct {
	DryRun bool `json:"dry_run"`
}

func decodeCollectJobRequest(r *http.Request) (collectJobRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req collectJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return collectJobRequest{}, nil
		}
		return collectJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func (h *Handler) RunCollectJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCollectJob")
	defer span.End()

	if h.collectorService == nil {
		writeError(ctx, w, fmt.Errorf("%w: collector is not configured", usecase.ErrSourceUnavailable))
		return
	}

	req, err := decodeCollectJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.collectorService.Run(ctx, usecase.RunOptions{DryRun: req.DryRun})
	if err != nil {
		h.logger.WarnContext(ctx, "run collect job failed", "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
