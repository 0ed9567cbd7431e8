package config

// ValidatableConfig is a configuration that can check itself.
type ValidatableConfig interface {
	Validate() []error
}

// Validate collects the errors of all cfgs.
func Validate(cfgs ...ValidatableConfig) []error {
	var out []error

	for _, cfg := range cfgs {
		out = append(out, cfg.Validate()...)
	}

	return out
}
