package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
)

func init() {
	registerValidations()
}

// registerValidations installs domain value checks on gin's binding engine.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("docstatus", func(fl validator.FieldLevel) bool {
		switch models.DocumentStatus(fl.Field().String()) {
		case models.StatusDraft, models.StatusPending, models.StatusApproved, models.StatusNeedsChanges:
			return true
		}
		return false
	})

	v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
		switch models.DocumentType(fl.Field().String()) {
		case models.TypeBRD, models.TypePO, models.TypeGeneral:
			return true
		}
		return false
	})
}
