package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"github.com/petadoption/webclient/internal/views"
)

func (c *cli) applications(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "mine":
		return c.applicationsMine(ctx, args[1:])
	case "all":
		return c.applicationsAll(ctx, args[1:])
	case "show":
		return c.applicationsShow(ctx, args[1:])
	case "status":
		return c.applicationsStatus(ctx, args[1:])
	case "delete":
		return c.applicationsDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown applications command %q", args[0])
	}
}

func (c *cli) printApplications(items []models.Application, admin bool) error {
	if items == nil {
		items = []models.Application{}
	}
	return c.out.print(items, func(w io.Writer) {
		if len(items) == 0 {
			fmt.Fprintln(w, "No applications found")
			return
		}
		if admin {
			row(w, "ID", "PET", "APPLICANT", "STATUS", "CREATED")
		} else {
			row(w, "ID", "PET", "STATUS", "CREATED", "MESSAGE")
		}
		for _, a := range items {
			if admin {
				row(w, a.ID, a.PetName(), a.ApplicantName(), a.Status, a.CreatedAt)
			} else {
				row(w, a.ID, a.PetName(), a.Status, a.CreatedAt, a.Message)
			}
		}
	})
}

func (c *cli) applicationsMine(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAuth(); err != nil {
		return err
	}
	if len(args) > 0 {
		return errUsage
	}

	dashboard := views.NewUserDashboard(c.app.Applications, c.notify, c.app.Logger)
	dashboard.Load(ctx)
	if err := c.checkLoad(ctx); err != nil {
		return err
	}
	return c.printApplications(dashboard.Items(), false)
}

func (c *cli) applicationsAll(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAdmin(); err != nil {
		return err
	}
	fs := c.flags("applications all")
	filter := fs.String("status", views.FilterAll, "all, pending, approved or rejected")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return errUsage
	}

	manage := views.NewManageApplications(c.app.Applications, c.notify, c.app.Logger)
	if err := manage.SetFilter(*filter); err != nil {
		return err
	}
	manage.Load(ctx)
	if err := c.checkLoad(ctx); err != nil {
		return err
	}
	return c.printApplications(manage.Items(), true)
}

func (c *cli) applicationsShow(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAuth(); err != nil {
		return err
	}
	id, err := parseWithID(c.flags("applications show"), args)
	if err != nil {
		return err
	}

	env := c.app.Applications.Get(ctx, id)
	if !env.Success {
		return errors.New(env.MessageOr("Failed to load application"))
	}
	a, err := services.DecodeApplication(env)
	if err != nil {
		return err
	}
	return c.out.print(a, func(w io.Writer) {
		row(w, "ID", a.ID)
		row(w, "Pet", a.PetName())
		row(w, "Applicant", a.ApplicantName())
		row(w, "Status", a.Status)
		row(w, "Created", a.CreatedAt)
		row(w, "Message", a.Message)
	})
}

func (c *cli) applicationsStatus(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAdmin(); err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("applications status expects an id and a status (pending, approved or rejected)")
	}

	manage := views.NewManageApplications(c.app.Applications, c.notify, c.app.Logger)
	if !manage.UpdateStatus(ctx, models.ID(args[0]), models.Status(args[1])) {
		return errReported
	}
	return nil
}

func (c *cli) applicationsDelete(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAuth(); err != nil {
		return err
	}
	id, err := parseWithID(c.flags("applications delete"), args)
	if err != nil {
		return err
	}

	dashboard := views.NewUserDashboard(c.app.Applications, c.notify, c.app.Logger)
	if !dashboard.Delete(ctx, id) {
		return errReported
	}
	return nil
}

type statsOutput struct {
	Totals     models.DashboardStats `json:"totals" yaml:"totals"`
	Breakdowns views.Breakdowns      `json:"breakdowns" yaml:"breakdowns"`
}

func (c *cli) stats(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAdmin(); err != nil {
		return err
	}
	if len(args) > 0 {
		return errUsage
	}

	dashboard := views.NewAdminDashboard(c.app.Statistics, c.notify, c.app.Logger)
	dashboard.Load(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	out := statsOutput{Totals: dashboard.Totals(), Breakdowns: dashboard.Breakdowns()}
	err := c.out.print(out, func(w io.Writer) {
		t := out.Totals
		row(w, "Total pets", t.TotalPets)
		row(w, "Available pets", t.AvailablePets)
		row(w, "Total applications", t.TotalApplications)
		row(w, "Pending applications", t.PendingApplications)
		row(w, "Total users", t.TotalUsers)
		for _, b := range []struct {
			name string
			data models.StatsBreakdown
		}{
			{"pets", out.Breakdowns.Pets},
			{"applications", out.Breakdowns.Applications},
			{"users", out.Breakdowns.Users},
		} {
			for _, k := range sortedKeys(b.data) {
				row(w, b.name+"."+k, b.data[k])
			}
		}
	})
	if err != nil {
		return err
	}
	// partial results are still printed
	if c.notify.errored() {
		return errReported
	}
	return nil
}
