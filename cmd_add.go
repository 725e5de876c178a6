package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kisan_bazaar/marketplace"
	"kisan_bazaar/models"
)

var addForm models.ListingForm

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Post a new listing as the signed-in farmer",
	Long: `Validates the form, infers the crop category and writes one document to the
collection. Requires AUTH_TOKEN for a signed-in (non-anonymous) user.

Example:
  kisan add --crop "Basmati Rice" --quantity 40 --price 4200 \
    --location "Karnal, Haryana" --contact "+91 98765 43210"`,
	RunE: runAdd,
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addForm.Crop, "crop", "", "Crop name")
	f.StringVar(&addForm.Quantity, "quantity", "", "Quantity in quintals")
	f.StringVar(&addForm.Price, "price", "", "Price per quintal")
	f.StringVar(&addForm.Grade, "grade", models.GradeA, "Quality grade: A, B or C")
	f.StringVar(&addForm.Location, "location", "", "Location (defaults to USER_LOCATION)")
	f.StringVar(&addForm.Contact, "contact", "", "Contact number")
	f.StringVar(&addForm.Description, "description", "", "Optional description")
	f.StringVar(&addForm.Image, "image", "", "Optional image URL")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	form := addForm
	if form.Location == "" {
		form.Location = a.cfg.UserLocation
	}

	id, err := a.pipeline.Submit(cmd.Context(), form)
	if err != nil {
		a.logger.Debug("Submit failed", zap.Error(err), zap.Bool("validation", marketplace.IsValidation(err)))
		return userError(err)
	}

	out := cmd.OutOrStdout()
	if l, ok := a.pipeline.Find(id); ok {
		fmt.Fprintf(out, "Listed %s %s (%s) with id %s\n", l.CropIcon, l.Crop, l.Category, id)
	} else {
		fmt.Fprintf(out, "Listed with id %s\n", id)
	}
	if banner := a.pipeline.Status().Banner(); banner != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), banner)
	}
	return nil
}
