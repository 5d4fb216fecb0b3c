package core

import (
	"context"

	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// unknownTool replies to anything no other handler covers
type unknownTool struct{}

func (t *unknownTool) Spec() tool.Spec {
	return tool.Spec{
		Name:             types.IntentUnknown,
		Description:      "Fallback for unrecognized requests",
		RequiresIdentity: false,
	}
}

func (t *unknownTool) Run(_ context.Context, _ model.UserID, _ model.IntentRequest) (*model.ActionResult, error) {
	return model.Declined(UnknownMessage), nil
}
