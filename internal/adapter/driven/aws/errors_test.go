package aws

import (
	"errors"
	"fmt"
	"testing"

	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsRoleAlreadyExists(t *testing.T) {
	err := &iamtypes.EntityAlreadyExistsException{}
	assert.True(t, IsRoleAlreadyExists(err))
	assert.True(t, IsRoleAlreadyExists(fmt.Errorf("creating role: %w", err)))
	assert.False(t, IsRoleAlreadyExists(errors.New("EntityAlreadyExists")))
}

func TestIsLogGroupAlreadyExists(t *testing.T) {
	err := &cwltypes.ResourceAlreadyExistsException{}
	assert.True(t, IsLogGroupAlreadyExists(err))
	assert.True(t, IsLogGroupAlreadyExists(fmt.Errorf("creating log group: %w", err)))
	assert.False(t, IsLogGroupAlreadyExists(errors.New("ResourceAlreadyExistsException")))
}

func TestIsTargetGroupNotFound(t *testing.T) {
	err := &elbv2types.TargetGroupNotFoundException{}
	assert.True(t, IsTargetGroupNotFound(err))
	assert.False(t, IsTargetGroupNotFound(&elbv2types.LoadBalancerNotFoundException{}))
}

func TestEC2CodeClassification(t *testing.T) {
	dup := &smithy.GenericAPIError{Code: "InvalidGroup.Duplicate", Message: "already exists"}
	assert.True(t, IsSecurityGroupDuplicate(dup))
	assert.True(t, IsSecurityGroupDuplicate(fmt.Errorf("creating: %w", dup)))
	assert.False(t, IsIngressRuleDuplicate(dup))

	perm := &smithy.GenericAPIError{Code: "InvalidPermission.Duplicate", Message: "rule exists"}
	assert.True(t, IsIngressRuleDuplicate(perm))
	assert.False(t, IsSecurityGroupDuplicate(perm))
}

func TestIsAccessDenied(t *testing.T) {
	for _, code := range []string{"AccessDenied", "AccessDeniedException", "UnauthorizedOperation"} {
		err := &smithy.GenericAPIError{Code: code}
		assert.True(t, IsAccessDenied(err), code)
	}
	assert.False(t, IsAccessDenied(&smithy.GenericAPIError{Code: "ThrottlingException"}))
	assert.False(t, IsAccessDenied(errors.New("access denied")))
}

// Message text never drives classification; only codes and typed
// exceptions do.
func TestMessageTextIsIgnored(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "SomethingElse", Message: "InvalidGroup.Duplicate"}
	assert.False(t, IsSecurityGroupDuplicate(err))
}
