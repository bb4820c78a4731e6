package pagination

import "fmt"

// Validate validates pagination parameters against the configuration.
// Returns an error if:
//   - page is less than 1
//   - limit is less than 1 or greater than config.MaxLimit
func (p Params) Validate(config Config) error {
	if p.Page < 1 {
		return fmt.Errorf("page must be a positive integer")
	}
	if p.Limit < 1 || p.Limit > config.MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", config.MaxLimit)
	}
	return nil
}

// WithDefaults fills missing or out-of-range values from config: defaults
// for non-positive page/limit, and the limit capped at config.MaxLimit.
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = config.DefaultLimit
	}
	if p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	return p
}
