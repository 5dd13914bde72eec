// Package console is the operator CLI for the settings service. It drives the
// category form and the approval flow viewer against a running server.
package console

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/pesio-ai/be-plt-settings/internal/approvalflow"
	"github.com/pesio-ai/be-plt-settings/internal/categoryform"
	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/config"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
)

// Commands
const (
	CmdCategoryCreate = "category create"
	CmdCategoryEdit   = "category edit"
	CmdCategoryList   = "category list"
	CmdFlowView       = "flow view"
)

const usage = "usage: console <category create|category edit|category list|flow view> [flags]"

// Config is one parsed console invocation
type Config struct {
	Command     string
	ID          int64
	TenantID    int64
	ActorID     int64
	Name        string
	Description string
	Edit        bool
}

// ParseConfig parses "<resource> <verb> [flags]". Tenant and actor default to
// the environment configuration.
func ParseConfig(fs *flag.FlagSet, args []string, env config.ConsoleConfig) (Config, error) {
	if len(args) < 2 {
		return Config{}, fmt.Errorf("%s", usage)
	}
	cfg := Config{
		Command:  args[0] + " " + args[1],
		TenantID: env.TenantID,
		ActorID:  env.ActorID,
	}
	fs.Int64Var(&cfg.ID, "id", 0, "category or flow id")
	fs.Int64Var(&cfg.TenantID, "tenant", cfg.TenantID, "tenant id")
	fs.Int64Var(&cfg.ActorID, "actor", cfg.ActorID, "acting user id")
	fs.StringVar(&cfg.Name, "name", "", "category name")
	fs.StringVar(&cfg.Description, "description", "", "category description")
	fs.BoolVar(&cfg.Edit, "edit", false, "request edit mode after viewing a flow")
	if err := fs.Parse(args[2:]); err != nil {
		return Config{}, err
	}

	switch cfg.Command {
	case CmdCategoryCreate, CmdCategoryList:
	case CmdCategoryEdit, CmdFlowView:
		if cfg.ID <= 0 {
			return Config{}, fmt.Errorf("%s: -id is required", cfg.Command)
		}
	default:
		return Config{}, fmt.Errorf("unknown command %q\n%s", cfg.Command, usage)
	}
	return cfg, nil
}

// API is the part of the settings REST API the console uses
type API interface {
	categoryform.Persister
	GetCategory(ctx context.Context, id, tenantID int64) (*model.Category, error)
	ListCategories(ctx context.Context, tenantID int64) ([]*model.Category, error)
	ListUsers(ctx context.Context, tenantID int64) ([]model.User, error)
	GetFlow(ctx context.Context, id, tenantID int64) (*model.Flow, error)
}

// Runner executes console commands
type Runner struct {
	API      API
	Notifier categoryform.Notifier
	Out      io.Writer
	Log      *logger.Logger
	Clock    func() time.Time
}

// Run executes one command
func (r *Runner) Run(ctx context.Context, cfg Config) error {
	if r.Out == nil {
		return fmt.Errorf("output is required")
	}
	if r.Log == nil {
		r.Log = logger.Nop()
	}

	switch cfg.Command {
	case CmdCategoryCreate:
		return r.saveCategory(ctx, cfg, categoryform.ModeCreate, nil)
	case CmdCategoryEdit:
		existing, err := r.API.GetCategory(ctx, cfg.ID, cfg.TenantID)
		if err != nil {
			return err
		}
		return r.saveCategory(ctx, cfg, categoryform.ModeEdit, existing)
	case CmdCategoryList:
		return r.listCategories(ctx, cfg.TenantID)
	case CmdFlowView:
		return r.viewFlow(ctx, cfg)
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

func (r *Runner) saveCategory(ctx context.Context, cfg Config, mode categoryform.Mode, existing *model.Category) error {
	form := categoryform.New(categoryform.Config{
		Mode:      mode,
		Category:  existing,
		Persister: r.API,
		Notifier:  r.Notifier,
		CloseModal: func() {
			r.Log.Debug().Msg("Category form closed")
		},
		Trigger: func() {
			if err := r.listCategories(ctx, cfg.TenantID); err != nil {
				r.Log.Warn().Err(err).Msg("Failed to refresh categories")
			}
		},
		Session: categoryform.Session{ActorID: cfg.ActorID, TenantID: cfg.TenantID},
		Clock:   r.Clock,
		Logger:  r.Log,
	})
	fmt.Fprintln(r.Out, form.Heading())

	if mode == categoryform.ModeCreate || cfg.Name != "" {
		form.SetField(categoryform.FieldName, cfg.Name)
	}
	if mode == categoryform.ModeCreate || cfg.Description != "" {
		form.SetField(categoryform.FieldDescription, cfg.Description)
	}

	if err := form.Submit(ctx); err != nil {
		var verr *errors.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(r.Out, "  %s: %s\n", verr.Field, verr.Message)
		}
		return err
	}
	return nil
}

func (r *Runner) listCategories(ctx context.Context, tenantID int64) error {
	categories, err := r.API.ListCategories(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(r.Out, "No categories")
		return nil
	}
	for _, c := range categories {
		fmt.Fprintf(r.Out, "%6d  %-30s  %s\n", c.ID, c.Name, c.Description)
	}
	return nil
}

func (r *Runner) viewFlow(ctx context.Context, cfg Config) error {
	users, err := r.API.ListUsers(ctx, cfg.TenantID)
	if err != nil {
		return err
	}
	flow, err := r.API.GetFlow(ctx, cfg.ID, cfg.TenantID)
	if err != nil {
		return err
	}

	viewer := approvalflow.Viewer{
		Label:     flow.Label,
		Directory: approvalflow.NewDirectory(users),
		Flow:      &flow.Details,
		SetMode: func(m approvalflow.Mode) {
			fmt.Fprintf(r.Out, "mode: %s\n", m)
		},
	}

	fmt.Fprintln(r.Out, viewer.Label)
	shown := 0
	for card := range viewer.Cards() {
		fmt.Fprintf(r.Out, "  %s: %s (%s, %s) %s\n",
			card.Title(), card.Name, card.RoleName, card.DepartmentName, card.Photo)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(r.Out, "  no approvers")
	}

	if cfg.Edit {
		viewer.Edit()
	}
	return nil
}
