package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/usecase"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

var (
	promptColor   = color.New(color.FgGreen, color.Bold)
	agentColor    = color.New(color.FgCyan)
	progressColor = color.New(color.FgHiBlack)
	systemColor   = color.New(color.FgYellow)
)

const chatHelp = `Commands:
  /login <user-id>  talk as a registered user
  /logout           talk anonymously
  /resume           resume deferred requests
  /quit             exit`

func cmdChat() *cli.Command {
	var agentCfg agentConfig
	var userID string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to talk as (anonymous when empty)",
			Sources:     cli.EnvVars("PETPAL_CHAT_USER"),
			Destination: &userID,
		},
	}
	flags = append(flags, agentCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Talk to the agent in the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := agentCfg.build(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			session := newChatSession(rt.uc.Agent, os.Stdin, os.Stdout, model.UserID(userID))
			return session.Run(ctx)
		},
	}
}

// chatSession is a line-oriented conversation bound to one session key
type chatSession struct {
	agent *usecase.AgentUseCase
	in    io.Reader
	out   io.Writer
	sess  usecase.Session
}

func newChatSession(agent *usecase.AgentUseCase, in io.Reader, out io.Writer, caller model.UserID) *chatSession {
	return &chatSession{
		agent: agent,
		in:    in,
		out:   out,
		sess:  usecase.Session{Key: uuid.NewString(), Caller: caller},
	}
}

// Run reads messages until EOF or /quit
func (x *chatSession) Run(ctx context.Context) error {
	systemColor.Fprintln(x.out, chatHelp)

	// Progress from tools is printed while the turn runs
	ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
		progressColor.Fprintln(x.out, "  "+message)
	})

	scanner := bufio.NewScanner(x.in)
	for {
		promptColor.Fprint(x.out, "you> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/help":
			systemColor.Fprintln(x.out, chatHelp)
		case line == "/logout":
			x.sess.Caller = ""
			systemColor.Fprintln(x.out, "Talking anonymously.")
		case strings.HasPrefix(line, "/login"):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/login"))
			if id == "" {
				systemColor.Fprintln(x.out, "Usage: /login <user-id>")
				continue
			}
			x.sess.Caller = model.UserID(id)
			systemColor.Fprintf(x.out, "Talking as %s.\n", id)
		case line == "/resume":
			x.resume(ctx)
		default:
			x.send(ctx, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read input")
	}
	fmt.Fprintln(x.out)
	return nil
}

func (x *chatSession) send(ctx context.Context, text string) {
	reply, err := x.agent.HandleMessage(ctx, x.sess, text)
	if err != nil {
		x.fail(ctx, err)
		return
	}
	agentColor.Fprintf(x.out, "paai> %s\n", reply.Text)
	progressColor.Fprintf(x.out, "  [%s %s]\n", reply.CaseID, reply.Status)
}

func (x *chatSession) resume(ctx context.Context) {
	reply, err := x.agent.ResumePendingTasks(ctx, x.sess)
	if err != nil {
		x.fail(ctx, err)
		return
	}
	for _, m := range reply.History {
		progressColor.Fprintf(x.out, "  %s: %s\n", m.Role, m.Content)
	}
	agentColor.Fprintf(x.out, "paai> %s\n", reply.Text)
}

func (x *chatSession) fail(ctx context.Context, err error) {
	if errors.Is(err, interfaces.ErrConflict) {
		agentColor.Fprintf(x.out, "paai> %s\n", usecase.ConflictMessage)
		return
	}
	_ = errutil.Handle(ctx, err, "chat turn failed")
	agentColor.Fprintf(x.out, "paai> %s\n", usecase.FailureMessage)
}
