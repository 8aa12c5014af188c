package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoTemplatesFound = errors.New("no task definition templates found")
	ErrNoDefaultVPC     = errors.New("no default VPC found in the region")
	ErrNoArtifactBucket = errors.New("auto commit is enabled but no artifact bucket is configured")
)

// PolicyAttachmentError marks a policy attachment that failed after its role
// had already been created. The role exists and is usable, so callers treat
// this class as a warning rather than aborting the run.
type PolicyAttachmentError struct {
	Role      string
	PolicyARN string
	Err       error
}

func (e *PolicyAttachmentError) Error() string {
	return fmt.Sprintf("attaching policy %s to role %s: %v", e.PolicyARN, e.Role, e.Err)
}

func (e *PolicyAttachmentError) Unwrap() error {
	return e.Err
}
