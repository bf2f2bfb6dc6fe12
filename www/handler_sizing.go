package www

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/optimize"
	"github.com/icodeforyou/solarproposal-go/proposal"
)

type ProposalSizer interface {
	Size(ctx context.Context, in proposal.Input, objective optimize.Objective) (proposal.SizingOutput, error)
}

type sizingRequest struct {
	proposal.Input
	Objective string `json:"objective,omitempty"`
}

func NewSizingHandler(logger *slog.Logger, sizer ProposalSizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sizingRequest
		if err := decodeJson(w, r, &req); err != nil {
			writeError(logger, w, fmt.Errorf("%w: invalid sizing request: %v", calc.ErrValidation, err))
			return
		}

		objective := optimize.ObjectiveNetSavings
		if req.Objective != "" {
			o, ok := optimize.ParseObjective(req.Objective)
			if !ok {
				writeError(logger, w, fmt.Errorf("%w: unknown objective %q", calc.ErrValidation, req.Objective))
				return
			}
			objective = o
		}

		out, err := sizer.Size(r.Context(), req.Input, objective)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJson(logger, w, http.StatusOK, out)
	}
}
