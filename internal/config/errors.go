package config

import "github.com/hashicorp/go-multierror"

// joinErrors accumulates independent per-project or per-task failures into
// a single error so one bad config file does not hide problems elsewhere in
// the workspace.
func joinErrors(errs []error) error {
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
