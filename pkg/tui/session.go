package tui

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/goliatone/go-estimate/pkg/form"
	"github.com/goliatone/go-estimate/pkg/geoip"
)

var sessionNumberPattern = regexp.MustCompile(`^[0-9.,]+$`)

// Option configures the session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithEstimate attaches an existing form instead of a fresh one.
func WithEstimate(est *form.Estimate) Option {
	return func(s *Session) {
		if est != nil {
			s.form = est
		}
	}
}

// WithGeoClient enables location prefill through the provided client.
func WithGeoClient(client *geoip.Client) Option {
	return func(s *Session) {
		s.geo = client
	}
}

// WithFormatter overrides the grand-total formatter.
func WithFormatter(formatter *form.CurrencyFormatter) Option {
	return func(s *Session) {
		if formatter != nil {
			s.formatter = formatter
		}
	}
}

// Session walks a user through the estimate form on a terminal: location
// prefill, company and address fields, then unit rows with running totals.
type Session struct {
	form      *form.Estimate
	driver    PromptDriver
	geo       *geoip.Client
	formatter *form.CurrencyFormatter
}

// NewSession builds a session applying the provided options.
func NewSession(options ...Option) *Session {
	s := &Session{
		driver:    NewSurveyDriver(),
		formatter: form.NewCurrencyFormatter(currency.USD, language.AmericanEnglish),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.form == nil {
		s.form = form.NewEstimate()
	}
	return s
}

// Run drives the full interaction and returns the resulting submission.
// Prefill failures are reported but do not stop the session; validation
// failures are reported and the submission is returned anyway.
func (s *Session) Run(ctx context.Context) (form.Submission, error) {
	if s.geo != nil {
		if err := s.geo.Prefill(ctx, s.form); err != nil {
			if infoErr := s.driver.Info(ctx, fmt.Sprintf("location lookup failed: %v", err)); infoErr != nil {
				return form.Submission{}, infoErr
			}
		}
	}

	if err := s.collectCompany(ctx); err != nil {
		return form.Submission{}, err
	}
	if err := s.collectLocation(ctx); err != nil {
		return form.Submission{}, err
	}
	if err := s.collectUnits(ctx); err != nil {
		return form.Submission{}, err
	}

	if err := s.driver.Info(ctx, fmt.Sprintf("Grand total: %s", s.formatter.Format(s.form.TotalSum()))); err != nil {
		return form.Submission{}, err
	}

	if errs := s.form.Validate(); !errs.Valid() {
		for _, msg := range errs.Messages() {
			if err := s.driver.Info(ctx, "warning: "+msg); err != nil {
				return form.Submission{}, err
			}
		}
	}

	return s.form.Submission(), nil
}

func (s *Session) collectCompany(ctx context.Context) error {
	current := s.form.Submission()
	value, err := s.driver.Input(ctx, InputConfig{
		Message:   "Company name",
		Default:   current.CompanyName,
		Validator: companyNameValidator,
	})
	if err != nil {
		return err
	}
	s.form.Patch(form.FieldPatch{CompanyName: &value})
	return nil
}

func (s *Session) collectLocation(ctx context.Context) error {
	current := s.form.Submission()
	fields := []struct {
		message string
		current string
		apply   func(*form.FieldPatch, *string)
	}{
		{"Country", current.CountryName, func(p *form.FieldPatch, v *string) { p.CountryName = v }},
		{"City", current.City, func(p *form.FieldPatch, v *string) { p.City = v }},
		{"Zip code", current.ZipCode, func(p *form.FieldPatch, v *string) { p.ZipCode = v }},
		{"Street", current.Street, func(p *form.FieldPatch, v *string) { p.Street = v }},
	}

	var patch form.FieldPatch
	for _, field := range fields {
		value, err := s.driver.Input(ctx, InputConfig{
			Message: field.message,
			Default: field.current,
		})
		if err != nil {
			return err
		}
		field.apply(&patch, &value)
	}
	s.form.Patch(patch)
	return nil
}

func (s *Session) collectUnits(ctx context.Context) error {
	for index := 0; ; index++ {
		if err := s.collectUnitRow(ctx, index); err != nil {
			return err
		}

		if row, ok := s.rowAt(index); ok && row.UnitTotalPrice != "" {
			if err := s.driver.Info(ctx, fmt.Sprintf("Unit total: %s", row.UnitTotalPrice)); err != nil {
				return err
			}
		}

		more, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add another unit?"})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		s.form.AddRow()
	}
}

func (s *Session) collectUnitRow(ctx context.Context, index int) error {
	row, _ := s.rowAt(index)

	prompts := []struct {
		message   string
		field     form.RowField
		current   string
		validator func(string) error
	}{
		{"Unit name", form.RowUnitName, row.UnitName, requiredValidator},
		{"Quantity", form.RowQty, row.Qty, numberValidator},
		{"Unit price", form.RowUnitPrice, row.UnitPrice, numberValidator},
	}

	for _, prompt := range prompts {
		value, err := s.driver.Input(ctx, InputConfig{
			Message:   fmt.Sprintf("%s (unit %d)", prompt.message, index+1),
			Default:   prompt.current,
			Validator: prompt.validator,
		})
		if err != nil {
			return err
		}
		if err := s.form.SetRowField(index, prompt.field, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) rowAt(index int) (form.UnitRow, bool) {
	rows := s.form.Rows()
	if index < 0 || index >= len(rows) {
		return form.UnitRow{}, false
	}
	return rows[index], true
}

func requiredValidator(value string) error {
	if value == "" {
		return fmt.Errorf("a value is required")
	}
	return nil
}

func numberValidator(value string) error {
	if value == "" {
		return fmt.Errorf("a value is required")
	}
	if !sessionNumberPattern.MatchString(value) {
		return fmt.Errorf("only digits, dots and commas are allowed")
	}
	return nil
}

func companyNameValidator(value string) error {
	if value == "" {
		return fmt.Errorf("a value is required")
	}
	if len(value) > 25 {
		return fmt.Errorf("must be 25 characters or fewer")
	}
	return nil
}
