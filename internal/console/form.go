package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minicrm/minicrm/internal/crm"
)

// ErrFormInvalid marks a rejected submission. No network call is made
// when validation fails.
var ErrFormInvalid = errors.New("form invalid")

// formState is the submit engine shared by both entity forms:
// idle → submitting → idle (success closes the form and triggers the
// caller-supplied refresh) or idle → submitting → idle-with-error
// (form stays open with every entered value preserved).
type formState struct {
	phase   Phase
	errMsg  string
	closed  bool
	refresh RefreshFunc
}

// begin guards re-entry: only one submission may be in flight per
// open form.
func (s *formState) begin() bool {
	if s.phase == PhaseSubmitting || s.closed {
		return false
	}
	s.phase = PhaseSubmitting
	s.errMsg = ""
	return true
}

func (s *formState) succeed(ctx context.Context) error {
	s.phase = PhaseIdle
	s.closed = true
	if s.refresh != nil {
		return s.refresh(ctx)
	}
	return nil
}

func (s *formState) fail(err error, fallback string) {
	s.phase = PhaseIdleWithError
	s.errMsg = ErrorDetail(err, fallback)
}

func (s *formState) reject(err error) error {
	s.phase = PhaseIdleWithError
	s.errMsg = err.Error()
	return err
}

// Submitting reports whether a submission is in flight; the submit
// control is disabled while true.
func (s *formState) Submitting() bool {
	return s.phase == PhaseSubmitting
}

// Closed reports whether the form finished successfully.
func (s *formState) Closed() bool {
	return s.closed
}

// ErrorMessage returns the message shown inside the open form.
func (s *formState) ErrorMessage() string {
	return s.errMsg
}

// CustomerFormValues are the editable customer fields, all mandatory.
type CustomerFormValues struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// CustomerForm drives create and edit of a customer through the
// shared form contract.
type CustomerForm struct {
	formState
	gateway  Gateway
	existing *crm.Customer
	Values   CustomerFormValues
}

// NewCustomerForm seeds the form from an existing record, or blank
// defaults when existing is nil. On success refresh re-runs the
// loader of the view that opened the form.
func NewCustomerForm(gateway Gateway, existing *crm.Customer, refresh RefreshFunc) *CustomerForm {
	form := &CustomerForm{
		formState: formState{refresh: refresh},
		gateway:   gateway,
		existing:  existing,
	}
	if existing != nil {
		form.Values = CustomerFormValues{
			Name:    existing.Name,
			Email:   existing.Email,
			Phone:   existing.Phone,
			Company: existing.Company,
		}
	}
	return form
}

// Editing reports whether the form updates an existing record.
func (f *CustomerForm) Editing() bool {
	return f.existing != nil
}

// Validate requires every field to be non-empty.
func (f *CustomerForm) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"name", f.Values.Name},
		{"email", f.Values.Email},
		{"phone", f.Values.Phone},
		{"company", f.Values.Company},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrFormInvalid, field.name)
		}
	}
	return nil
}

// Submit issues exactly one create or update call. Failure keeps the
// form open with all values intact and the gateway's error detail
// displayed.
func (f *CustomerForm) Submit(ctx context.Context) error {
	if !f.begin() {
		return nil
	}
	if err := f.Validate(); err != nil {
		return f.reject(err)
	}

	var err error
	if f.existing != nil {
		_, err = f.gateway.UpdateCustomer(ctx, f.existing.ID, crm.UpdateCustomerRequest{
			Name:    &f.Values.Name,
			Email:   &f.Values.Email,
			Phone:   &f.Values.Phone,
			Company: &f.Values.Company,
		})
	} else {
		_, err = f.gateway.CreateCustomer(ctx, crm.CreateCustomerRequest{
			Name:    f.Values.Name,
			Email:   f.Values.Email,
			Phone:   f.Values.Phone,
			Company: f.Values.Company,
		})
	}
	if err != nil {
		f.fail(err, "Failed to save customer")
		return err
	}
	return f.succeed(ctx)
}

// LeadFormValues are the editable lead fields. Value is free text and
// is coerced to a number only at submit time.
type LeadFormValues struct {
	Title       string
	Description string
	Status      crm.LeadStatus
	Value       string
}

// LeadForm drives create and edit of a lead through the shared form
// contract. New leads are created under the owning customer; the
// customer of an existing lead never changes.
type LeadForm struct {
	formState
	gateway    Gateway
	existing   *crm.Lead
	customerID string
	Values     LeadFormValues
}

// NewLeadForm seeds the form from an existing record, or blank
// defaults with status New when existing is nil.
func NewLeadForm(gateway Gateway, customerID string, existing *crm.Lead, refresh RefreshFunc) *LeadForm {
	form := &LeadForm{
		formState:  formState{refresh: refresh},
		gateway:    gateway,
		existing:   existing,
		customerID: customerID,
		Values:     LeadFormValues{Status: crm.StatusNew},
	}
	if existing != nil {
		form.Values = LeadFormValues{
			Title:       existing.Title,
			Description: existing.Description,
			Status:      existing.Status,
			Value:       strconv.FormatFloat(existing.Value, 'f', -1, 64),
		}
	}
	return form
}

// Editing reports whether the form updates an existing record.
func (f *LeadForm) Editing() bool {
	return f.existing != nil
}

// Validate requires title, description and value to be non-empty and
// the status to be one of the closed set.
func (f *LeadForm) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"title", f.Values.Title},
		{"description", f.Values.Description},
		{"value", f.Values.Value},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrFormInvalid, field.name)
		}
	}
	if f.Values.Status != "" && !f.Values.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrFormInvalid, f.Values.Status)
	}
	return nil
}

// CoercedValue parses the value text, silently falling back to zero.
// Non-numeric input is a coercion, not a validation error.
func (f *LeadForm) CoercedValue() float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(f.Values.Value), 64)
	if err != nil {
		return 0
	}
	return value
}

// Submit issues exactly one create or update call, mirroring the
// customer form contract.
func (f *LeadForm) Submit(ctx context.Context) error {
	if !f.begin() {
		return nil
	}
	if err := f.Validate(); err != nil {
		return f.reject(err)
	}

	status := f.Values.Status
	if status == "" {
		status = crm.StatusNew
	}
	value := f.CoercedValue()

	var err error
	if f.existing != nil {
		_, err = f.gateway.UpdateLead(ctx, f.existing.ID, crm.UpdateLeadRequest{
			Title:       &f.Values.Title,
			Description: &f.Values.Description,
			Status:      &status,
			Value:       &value,
		})
	} else {
		_, err = f.gateway.CreateLead(ctx, f.customerID, crm.CreateLeadRequest{
			Title:       f.Values.Title,
			Description: f.Values.Description,
			Status:      status,
			Value:       value,
		})
	}
	if err != nil {
		f.fail(err, "Failed to save lead")
		return err
	}
	return f.succeed(ctx)
}
