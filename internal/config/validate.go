package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags, then the rules spanning several fields.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return translateValidationError(err)
	}

	var errs []error
	if r.Environment != nil {
		names := make(map[string]bool)
		for i, svc := range r.Environment.Services {
			if names[svc.Name] {
				errs = append(errs, fmt.Errorf("environment.services[%d]: duplicate service name %q", i, svc.Name))
			}
			names[svc.Name] = true

			if err := svc.HelmChart().Validate(); err != nil {
				errs = append(errs, fmt.Errorf("environment.services[%d]: %w", i, err))
			}
			if svc.Kind == KindRouter && len(svc.Domains) > 0 && r.DNS == nil {
				errs = append(errs, fmt.Errorf("environment.services[%d]: custom domains need a dns provider", i))
			}
			if svc.Build != nil && r.Registry == nil {
				errs = append(errs, fmt.Errorf("environment.services[%d]: building an image needs a registry", i))
			}
		}
	}
	return errors.Join(errs...)
}

func translateValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Request.")
		if fe.Param() != "" {
			errs = append(errs, fmt.Errorf("%s: failed on %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		errs = append(errs, fmt.Errorf("%s: failed on %s", field, fe.Tag()))
	}
	return errors.Join(errs...)
}
