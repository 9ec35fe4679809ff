package catalog

// Package catalog provides product record validation.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	structs *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{structs: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateRecord checks a product record before it is stored.
func (v *Validator) ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("product is required")
	}
	if err := v.structs.Struct(record); err != nil {
		return describeFieldErrors(err)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if _, err := ParseDimensions(record.Size); err != nil {
		return fmt.Errorf("product size must look like 300x200x150")
	}
	if !CardboardType(strings.TrimSpace(record.CardboardType)).Valid() {
		return fmt.Errorf("unknown cardboard type %q", record.CardboardType)
	}
	if !Category(strings.TrimSpace(record.Category)).Valid() {
		return fmt.Errorf("unknown category %q", record.Category)
	}
	if !Availability(strings.TrimSpace(record.Availability)).Valid() {
		return fmt.Errorf("unknown availability %q", record.Availability)
	}

	return nil
}

// ValidateInventory checks a warehouse stock line.
func (v *Validator) ValidateInventory(record *InventoryRecord) error {
	if record == nil {
		return fmt.Errorf("inventory item is required")
	}
	if err := v.structs.Struct(record); err != nil {
		return describeFieldErrors(err)
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("inventory item name is required")
	}
	if _, err := ParseDimensions(record.Size); err != nil {
		return fmt.Errorf("inventory item size must look like 300x200x150")
	}
	if t := strings.TrimSpace(record.CardboardType); t != "" && !CardboardType(t).Valid() {
		return fmt.Errorf("unknown cardboard type %q", record.CardboardType)
	}
	return nil
}

// ValidateSeed checks every record of a seed file and rejects duplicate IDs.
func (v *Validator) ValidateSeed(seed *SeedFile) error {
	if seed == nil {
		return fmt.Errorf("seed is required")
	}

	ids := make(map[string]bool)
	for i := range seed.Products {
		record := &seed.Products[i]
		if err := v.ValidateRecord(record); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}
		if record.ID == "" {
			continue
		}
		if ids[record.ID] {
			return fmt.Errorf("duplicate product id: %s", record.ID)
		}
		ids[record.ID] = true
	}

	for i := range seed.Inventory {
		if err := v.ValidateInventory(&seed.Inventory[i]); err != nil {
			return fmt.Errorf("inventory item %d validation failed: %w", i, err)
		}
	}

	return nil
}

func describeFieldErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return fmt.Errorf("field %s failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
}
