package main

import (
	"context"

	"github.com/clubhub/clubhub/internal/db"
	"github.com/clubhub/clubhub/internal/services"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx *Context) error {
	gdb, err := db.Open(ctx.cfg.Database, ctx.log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb, ctx.cfg, ctx.log); err != nil {
		return err
	}
	ctx.log.Info().Msg("migrations applied")
	return nil
}

type SeedCmd struct {
	Email    string `help:"Super admin email." default:"admin@college.edu"`
	Password string `help:"Super admin password." default:"password123"`
	Demo     bool   `help:"Also provision the Tech Society demo club."`
}

func (s *SeedCmd) Run(ctx *Context) error {
	gdb, err := db.Open(ctx.cfg.Database, ctx.log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb, ctx.cfg, ctx.log); err != nil {
		return err
	}

	created, err := db.Seed(context.Background(), gdb, db.SeedOptions{AdminEmail: s.Email, AdminPassword: s.Password})
	if err != nil {
		return err
	}
	ctx.log.Info().Str("email", s.Email).Bool("created", created).Msg("super admin seeded")

	if !s.Demo {
		return nil
	}
	out, err := services.NewClubService(gdb).Provision(context.Background(), services.ProvisionInput{
		Name:        "Tech Society",
		Email:       "tech@college.edu",
		Password:    s.Password,
		Description: "The official coding club.",
		Category:    "Technical",
	})
	if err != nil {
		return err
	}
	ctx.log.Info().Str("club", out.Club.ID).Str("email", out.Account.Email).Msg("demo club provisioned")
	return nil
}
