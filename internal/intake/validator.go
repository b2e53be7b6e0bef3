package intake

import "fmt"

// Validator checks candidate metadata against a Config. It holds no mutable
// state and is safe for concurrent use.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator bound to cfg.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Config returns the configuration the validator was built with.
func (v *Validator) Config() Config {
	return v.cfg
}

// Validate applies the rules in order and returns the first failure:
// presence, accepted type, size bound. A candidate without a name counts as
// missing, which also covers typed nil pointers.
func (v *Validator) Validate(c Candidate) error {
	if c == nil {
		return &ValidationError{Reason: ReasonMissing}
	}
	h := c.Header()
	if h.Name == "" {
		return &ValidationError{Reason: ReasonMissing}
	}
	if !v.cfg.Accepts(h.MIMEType) {
		return &ValidationError{Name: h.Name, Reason: ReasonUnsupported}
	}
	if h.Size > v.cfg.MaxSize {
		return &ValidationError{
			Name:   h.Name,
			Reason: fmt.Sprintf("File size exceeds the maximum limit of %s", v.cfg.MaxSizeLabel()),
		}
	}
	return nil
}

// ValidateAll validates every candidate and returns the first failure.
func (v *Validator) ValidateAll(candidates []Candidate) error {
	for _, c := range candidates {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}
