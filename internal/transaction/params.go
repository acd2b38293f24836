package transaction

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// A transaction can be dated today at the latest.
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}

		today := time.Now()
		eod := time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 0, d.Location())

		return !d.After(eod)
	})

	return v
}

// CreateParams carries a validated new-transaction request. The
// recurring back-reference is only ever set by the schedule processor.
type CreateParams struct {
	Type        Type      `validate:"required,oneof=income expense"`
	Amount      int64     `validate:"required,gt=0"`
	Description string    `validate:"required,max=100"`
	Category    string    `validate:"required"`
	Date        time.Time `validate:"required,notfuture"`
	Notes       string    `validate:"max=500"`
	RecurringID *uuid.UUID
}

// Validate runs the client-side pre-submit checks. The server applies
// the same rules; this only catches mistakes before a round trip.
func (p CreateParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	return nil
}

// UpdateParams carries a partial edit; nil fields are left untouched.
type UpdateParams struct {
	Type        *Type
	Amount      *int64
	Description *string
	Category    *string
	Date        *time.Time
	Notes       *string
}

// ApplyTo merges the set fields into tx and refreshes UpdatedAt.
func (p UpdateParams) ApplyTo(tx *Transaction, now time.Time) {
	if p.Type != nil {
		tx.Type = *p.Type
	}

	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Description != nil {
		tx.Description = *p.Description
	}

	if p.Category != nil {
		tx.Category = *p.Category
	}

	if p.Date != nil {
		tx.Date = *p.Date
	}

	if p.Notes != nil {
		tx.Notes = *p.Notes
	}

	tx.UpdatedAt = now
}
