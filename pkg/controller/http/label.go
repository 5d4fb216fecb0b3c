package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/usecase"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
)

type labelRequest struct {
	Text string `json:"text"`
}

type labelResponse struct {
	Label      model.FoodLabel `json:"label"`
	Indexed    bool            `json:"indexed"`
	DocumentID string          `json:"document_id,omitempty"`
	ProsCons   string          `json:"pros_cons,omitempty"`
}

func labelHandler(labels *usecase.LabelUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req labelRequest
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		result, err := labels.Ingest(ctx, req.Text)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to ingest label"), statusOf(err))
			return
		}

		writeJSON(w, r, http.StatusOK, labelResponse{
			Label:      result.Label,
			Indexed:    result.Indexed,
			DocumentID: result.DocumentID,
			ProsCons:   result.ProsCons,
		})
	}
}
