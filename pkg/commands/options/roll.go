package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/spool/pkg/app"
)

// RollOptions are the fields of a roll as typed on the command line.
type RollOptions struct {
	Color       string
	Material    string
	Description string
	Weight      string
	Price       string
	Remaining   string
	PhotoFile   string
	ClearPhoto  bool
}

func AddRollArgs(cmd *cobra.Command, o *RollOptions) {
	cmd.Flags().StringVar(&o.Color, "color", "",
		"Color name or hex code, example: --color=\"Galaxy Black\".")
	cmd.Flags().StringVar(&o.Material, "material", "",
		"Material, example: --material=PLA.")
	cmd.Flags().StringVar(&o.Description, "description", "",
		"Free-form notes about the roll.")
	cmd.Flags().StringVar(&o.Weight, "weight", "",
		"Net filament weight in grams when bought.")
	cmd.Flags().StringVar(&o.Price, "price", "",
		"Price paid for the roll.")
	cmd.Flags().StringVar(&o.Remaining, "remaining", "",
		"Grams left on the roll, the weight by default.")
	cmd.Flags().StringVar(&o.PhotoFile, "photo", "",
		"Image file to attach to the roll.")
}

func AddClearPhotoArg(cmd *cobra.Command, o *RollOptions) {
	cmd.Flags().BoolVar(&o.ClearPhoto, "clear-photo", false,
		"Remove the photo of the roll.")
}

// Input converts the flags into a new roll.
func (o *RollOptions) Input() app.RollInput {
	return app.RollInput{
		Color:         o.Color,
		Material:      o.Material,
		Description:   o.Description,
		InitialWeight: o.Weight,
		InitialPrice:  o.Price,
		Remaining:     o.Remaining,
	}
}

// Edit converts the flags that were set into a roll edit.
func (o *RollOptions) Edit(cmd *cobra.Command) app.RollEdit {
	changed := func(name string, v *string) *string {
		if cmd.Flags().Changed(name) {
			return v
		}
		return nil
	}
	return app.RollEdit{
		Color:         changed("color", &o.Color),
		Material:      changed("material", &o.Material),
		Description:   changed("description", &o.Description),
		InitialWeight: changed("weight", &o.Weight),
		InitialPrice:  changed("price", &o.Price),
		Remaining:     changed("remaining", &o.Remaining),
		ClearPhoto:    o.ClearPhoto,
	}
}
