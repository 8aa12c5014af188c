package entity

// TaskDefinitionTemplate is the parsed form of a task definition template
// file. The JSON shape mirrors the ECS register-task-definition input so the
// same file can be fed to the AWS CLI by hand.
type TaskDefinitionTemplate struct {
	Family                  string                `json:"family"`
	NetworkMode             string                `json:"networkMode"`
	RequiresCompatibilities []string              `json:"requiresCompatibilities"`
	CPU                     string                `json:"cpu"`
	Memory                  string                `json:"memory"`
	ExecutionRoleArn        string                `json:"executionRoleArn"`
	TaskRoleArn             string                `json:"taskRoleArn"`
	ContainerDefinitions    []ContainerDefinition `json:"containerDefinitions"`
}

// ContainerDefinition é a definição de um container dentro do template.
type ContainerDefinition struct {
	Name             string            `json:"name"`
	Image            string            `json:"image"`
	Essential        bool              `json:"essential"`
	PortMappings     []PortMapping     `json:"portMappings"`
	Environment      []KeyValuePair    `json:"environment"`
	LogConfiguration *LogConfiguration `json:"logConfiguration,omitempty"`
}

// PortMapping expõe uma porta do container.
type PortMapping struct {
	ContainerPort int32  `json:"containerPort"`
	Protocol      string `json:"protocol"`
}

// KeyValuePair is a single environment variable entry.
type KeyValuePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LogConfiguration configures the awslogs driver for a container.
type LogConfiguration struct {
	LogDriver string            `json:"logDriver"`
	Options   map[string]string `json:"options"`
}
