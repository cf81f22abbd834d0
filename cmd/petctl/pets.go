package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"github.com/petadoption/webclient/internal/validation"
	"github.com/petadoption/webclient/internal/views"
)

func (c *cli) pets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		return c.petsList(ctx, args[1:])
	case "show":
		return c.petsShow(ctx, args[1:])
	case "create":
		return c.petsSave(ctx, "create", args[1:])
	case "update":
		return c.petsSave(ctx, "update", args[1:])
	case "delete":
		return c.petsDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown pets command %q", args[0])
	}
}

type petListOutput struct {
	Pets       []models.Pet     `json:"pets" yaml:"pets"`
	Pagination views.Pagination `json:"pagination" yaml:"pagination"`
}

func (c *cli) petsList(ctx context.Context, args []string) error {
	defaults := views.DefaultPetFilters()
	fs := c.flags("pets list")
	search := fs.String("search", "", "search text")
	species := fs.String("species", "", "species filter")
	breed := fs.String("breed", "", "breed filter")
	age := fs.String("age", "", "age filter")
	status := fs.String("status", defaults.Status, "status filter, empty for every status")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 0, "page size (backend default when 0)")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return errUsage
	}

	list := views.NewPetList(c.app.Pets, c.notify, c.app.Logger)
	list.SetFilters(views.PetFilters{Search: *search, Species: *species, Breed: *breed, Age: *age, Status: *status})
	list.SetPage(*page)
	if *limit > 0 {
		list.SetLimit(*limit)
	}
	list.Load(ctx)
	if err := c.checkLoad(ctx); err != nil {
		return err
	}

	out := petListOutput{Pets: list.Items(), Pagination: list.Pagination()}
	if out.Pets == nil {
		out.Pets = []models.Pet{}
	}
	return c.out.print(out, func(w io.Writer) {
		if len(out.Pets) == 0 {
			fmt.Fprintln(w, "No pets found")
			return
		}
		row(w, "ID", "NAME", "SPECIES", "BREED", "AGE", "STATUS")
		for _, p := range out.Pets {
			row(w, p.ID, p.Name, p.Species, p.Breed, p.Age, p.Status)
		}
		if pg := out.Pagination; pg.TotalPages > 0 {
			fmt.Fprintf(w, "\nPage %d of %d (%d pets)\n", pg.Page, pg.TotalPages, pg.Total)
		}
	})
}

type petOutput struct {
	models.Pet `yaml:",inline"`
	PhotoURL   string `json:"photoUrl,omitempty" yaml:"photoUrl,omitempty"`
	CanApply   bool   `json:"canApply" yaml:"canApply"`
}

// loadPet loads one pet through the details screen
func (c *cli) loadPet(ctx context.Context, id models.ID) (*views.PetDetails, error) {
	details := views.NewPetDetails(id, c.app.Pets, c.app.Applications, c.app.Session, c.notify, c.app.Logger)
	details.Load(ctx)
	if err := c.checkLoad(ctx); err != nil {
		return nil, err
	}
	if details.Pet() == nil {
		return nil, errReported
	}
	return details, nil
}

func (c *cli) petsShow(ctx context.Context, args []string) error {
	id, err := parseWithID(c.flags("pets show"), args)
	if err != nil {
		return err
	}
	details, err := c.loadPet(ctx, id)
	if err != nil {
		return err
	}

	p := details.Pet()
	out := petOutput{Pet: *p, PhotoURL: views.ImageURL(c.app.Config.AssetBaseURL(), p.Photo), CanApply: details.CanApply()}
	return c.out.print(out, func(w io.Writer) {
		row(w, "ID", p.ID)
		row(w, "Name", p.Name)
		row(w, "Species", p.Species)
		row(w, "Breed", p.Breed)
		row(w, "Age", p.Age)
		row(w, "Gender", p.Gender)
		row(w, "Size", p.Size)
		row(w, "Status", p.Status)
		row(w, "Photo", out.PhotoURL)
		row(w, "Description", p.Description)
		row(w, "Can apply", out.CanApply)
	})
}

// petFlags binds the editable pet fields to a flag set
type petFlags struct {
	input    models.PetInput
	photoURL string
	photo    string
}

func bindPetFlags(fs *flag.FlagSet, status models.Status) *petFlags {
	f := &petFlags{}
	fs.StringVar(&f.input.Name, "name", "", "pet name")
	fs.StringVar(&f.input.Species, "species", "", "species")
	fs.StringVar(&f.input.Breed, "breed", "", "breed")
	fs.IntVar(&f.input.Age, "age", 0, "age in years")
	fs.StringVar(&f.input.Gender, "gender", "", "gender")
	fs.StringVar(&f.input.Size, "size", "", "size")
	fs.StringVar(&f.input.Description, "description", "", "description")
	fs.Func("status", fmt.Sprintf("status (default %q)", status), func(s string) error {
		f.input.Status = models.Status(s)
		return nil
	})
	f.input.Status = status
	fs.StringVar(&f.photoURL, "photo-url", "", "absolute image URL, ignored with -photo")
	fs.StringVar(&f.photo, "photo", "", "image file to upload")
	return f
}

// apply copies the flags that were set on the command line onto input
func (f *petFlags) apply(fs *flag.FlagSet, input *models.PetInput) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			input.Name = f.input.Name
		case "species":
			input.Species = f.input.Species
		case "breed":
			input.Breed = f.input.Breed
		case "age":
			input.Age = f.input.Age
		case "gender":
			input.Gender = f.input.Gender
		case "size":
			input.Size = f.input.Size
		case "description":
			input.Description = f.input.Description
		case "status":
			input.Status = f.input.Status
		}
	})
}

func (c *cli) petsSave(ctx context.Context, op string, args []string) error {
	if err := c.app.Session.RequireAdmin(); err != nil {
		return err
	}

	fs := c.flags("pets " + op)
	var f *petFlags
	var id models.ID
	if op == "create" {
		f = bindPetFlags(fs, models.StatusAvailable)
		if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
			return errUsage
		}
	} else {
		f = bindPetFlags(fs, "")
		var err error
		if id, err = parseWithID(fs, args); err != nil {
			return err
		}
	}

	form := validation.PetForm{Input: f.input, PhotoURL: f.photoURL}
	if op == "update" {
		details, err := c.loadPet(ctx, id)
		if err != nil {
			return err
		}
		form.Input = models.InputFromPet(*details.Pet())
		f.apply(fs, &form.Input)
	}

	var photo *services.Photo
	if f.photo != "" {
		file, err := os.Open(f.photo)
		if err != nil {
			return fmt.Errorf("failed to open photo: %w", err)
		}
		defer file.Close()
		photo = &services.Photo{Filename: filepath.Base(f.photo), Content: file}
	}

	manage := views.NewManagePets(c.app.Pets, c.notify, c.app.Logger)
	if !manage.Save(ctx, id, form, photo) {
		return errReported
	}
	return nil
}

func (c *cli) petsDelete(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAdmin(); err != nil {
		return err
	}
	id, err := parseWithID(c.flags("pets delete"), args)
	if err != nil {
		return err
	}

	manage := views.NewManagePets(c.app.Pets, c.notify, c.app.Logger)
	if !manage.Delete(ctx, id) {
		return errReported
	}
	return nil
}

func (c *cli) apply(ctx context.Context, args []string) error {
	if err := c.app.Session.RequireAuth(); err != nil {
		return err
	}
	fs := c.flags("apply")
	message := fs.String("message", "", "why you want to adopt this pet")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	details, err := c.loadPet(ctx, id)
	if err != nil {
		return err
	}
	if !details.CanApply() {
		return fmt.Errorf("pet %s is not available for adoption (status %s)", id, details.Pet().Status.Label("unknown"))
	}
	if !details.Apply(ctx, *message) {
		return errReported
	}
	return nil
}
