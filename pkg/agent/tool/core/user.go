package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// registerUserTool creates an account from a name and an email
type registerUserTool struct {
	repo interfaces.Repository
}

func (t *registerUserTool) Spec() tool.Spec {
	return tool.Spec{
		Name:             types.IntentRegisterUser,
		Description:      "Register a new user account",
		Params:           []string{"name", "email"},
		RequiresIdentity: false,
	}
}

func (t *registerUserTool) Run(ctx context.Context, _ model.UserID, req model.IntentRequest) (*model.ActionResult, error) {
	p, ok := req.Params.(model.RegisterUserParams)
	if !ok {
		return nil, goerr.New("unexpected params for register_user", goerr.V("params", req.Params))
	}

	name := strings.TrimSpace(p.Name)
	email := strings.TrimSpace(p.Email)
	if name == "" || email == "" {
		return model.Declined("⚠️ Please provide both a name and an email to register."), nil
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" {
		return model.Declined(fmt.Sprintf("⚠️ Invalid email address: *%s*.", email)), nil
	}

	tool.Update(ctx, "Registering user...")

	existing, err := t.repo.User().GetByEmail(ctx, email)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up user by email")
	}
	if existing != nil {
		return alreadyRegistered(email), nil
	}

	created, err := t.repo.User().Create(ctx, &model.User{
		Username: strings.ToLower(local),
		Name:     name,
		Email:    email,
	})
	if errors.Is(err, interfaces.ErrAlreadyExists) {
		return alreadyRegistered(email), nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("username", strings.ToLower(local)))
	}

	return model.Succeeded(fmt.Sprintf("🎉 Registered *%s* with email *%s*.", name, email)).
		WithExtra(ExtraUserID, created.ID).
		WithExtra(ExtraUsername, created.Username), nil
}

func alreadyRegistered(email string) *model.ActionResult {
	return model.Declined(fmt.Sprintf("🔁 A user with email *%s* already exists.", email))
}
