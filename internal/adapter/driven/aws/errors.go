package aws

import (
	"errors"

	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
)

// Classificação tipada dos erros do control plane. Os códigos tolerados são
// enumerados por operação; nada aqui casa texto de mensagem de erro, para não
// mascarar falhas não relacionadas.

// errorCode extracts the API error code, if any.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsRoleAlreadyExists reports the IAM duplicate-role condition.
func IsRoleAlreadyExists(err error) bool {
	var exists *iamtypes.EntityAlreadyExistsException
	return errors.As(err, &exists)
}

// IsLogGroupAlreadyExists reports the CloudWatch Logs duplicate condition.
func IsLogGroupAlreadyExists(err error) bool {
	var exists *cwltypes.ResourceAlreadyExistsException
	return errors.As(err, &exists)
}

// IsTargetGroupNotFound reports the ELBv2 missing-target-group condition,
// which routes the deployer to the standalone service variant.
func IsTargetGroupNotFound(err error) bool {
	var notFound *elbv2types.TargetGroupNotFoundException
	return errors.As(err, &notFound)
}

// EC2 has no modeled exception types; duplicates surface as API error codes.

// IsSecurityGroupDuplicate reports the EC2 duplicate-group condition.
func IsSecurityGroupDuplicate(err error) bool {
	return errorCode(err) == "InvalidGroup.Duplicate"
}

// IsIngressRuleDuplicate reports the EC2 duplicate-ingress-rule condition.
func IsIngressRuleDuplicate(err error) bool {
	return errorCode(err) == "InvalidPermission.Duplicate"
}

// IsAccessDenied reports authorization failures, which are always fatal.
func IsAccessDenied(err error) bool {
	switch errorCode(err) {
	case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
		return true
	}
	return false
}
