package ags

// Request and response models for the AGS (Agent Sandbox) API, version
// 2025-09-20. Field names follow the wire format exactly; optional fields
// carry omitempty so absent values stay off the wire.

// Tool status values reported by the control plane. Anything else is a
// transitional state.
const (
	ToolStatusActive = "ACTIVE"
	ToolStatusFailed = "FAILED"
)

// PortConfiguration declares a named container port.
type PortConfiguration struct {
	Name     string `json:"Name"`
	Port     int    `json:"Port"`
	Protocol string `json:"Protocol"`
}

// EnvVar is a container environment variable.
type EnvVar struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// ResourceConfiguration sets the container resource limits.
type ResourceConfiguration struct {
	CPU    string `json:"CPU"`
	Memory string `json:"Memory"`
}

// HTTPGetAction describes the HTTP readiness probe target.
type HTTPGetAction struct {
	Path   string `json:"Path"`
	Port   int    `json:"Port"`
	Scheme string `json:"Scheme"`
}

// ProbeConfiguration is the container readiness probe.
type ProbeConfiguration struct {
	HTTPGet          *HTTPGetAction `json:"HttpGet,omitempty"`
	ReadyTimeoutMs   int            `json:"ReadyTimeoutMs,omitempty"`
	ProbeTimeoutMs   int            `json:"ProbeTimeoutMs,omitempty"`
	ProbePeriodMs    int            `json:"ProbePeriodMs,omitempty"`
	SuccessThreshold int            `json:"SuccessThreshold,omitempty"`
	FailureThreshold int            `json:"FailureThreshold,omitempty"`
}

// CustomConfiguration describes the sandbox container for a custom tool.
type CustomConfiguration struct {
	Image             string                 `json:"Image,omitempty"`
	ImageRegistryType string                 `json:"ImageRegistryType,omitempty"`
	Command           []string               `json:"Command,omitempty"`
	Args              []string               `json:"Args,omitempty"`
	Ports             []PortConfiguration    `json:"Ports,omitempty"`
	Env               []EnvVar               `json:"Env,omitempty"`
	Resources         *ResourceConfiguration `json:"Resources,omitempty"`
	Probe             *ProbeConfiguration    `json:"Probe,omitempty"`
}

// NetworkConfiguration selects the sandbox network mode
// (PUBLIC, VPC, SANDBOX).
type NetworkConfiguration struct {
	NetworkMode string `json:"NetworkMode"`
}

// Tag is a key/value resource tag.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// ImageStorageSource mounts a path out of a container image.
type ImageStorageSource struct {
	Reference         string `json:"Reference"`
	ImageRegistryType string `json:"ImageRegistryType,omitempty"`
	SubPath           string `json:"SubPath,omitempty"`
}

// StorageSource is the source of a storage mount.
type StorageSource struct {
	Image *ImageStorageSource `json:"Image,omitempty"`
}

// StorageMount attaches a storage source into the sandbox filesystem.
type StorageMount struct {
	Name          string         `json:"Name"`
	MountPath     string         `json:"MountPath"`
	ReadOnly      bool           `json:"ReadOnly,omitempty"`
	StorageSource *StorageSource `json:"StorageSource,omitempty"`
}

// Filter narrows list responses by a named attribute.
type Filter struct {
	Name   string   `json:"Name"`
	Values []string `json:"Values"`
}

// SandboxTool is a tool record as reported by the control plane.
type SandboxTool struct {
	ToolId        string `json:"ToolId"`
	ToolName      string `json:"ToolName"`
	ToolType      string `json:"ToolType,omitempty"`
	Status        string `json:"Status,omitempty"`
	StatusMessage string `json:"StatusMessage,omitempty"`
	Description   string `json:"Description,omitempty"`
	Tags          []Tag  `json:"Tags,omitempty"`
	CreateTime    string `json:"CreateTime,omitempty"`
}

// SandboxInstance is a running sandbox started from a tool.
type SandboxInstance struct {
	InstanceId string `json:"InstanceId"`
	ToolId     string `json:"ToolId,omitempty"`
	Status     string `json:"Status,omitempty"`
	CreateTime string `json:"CreateTime,omitempty"`
}

// CreateSandboxToolRequest creates a custom sandbox tool.
type CreateSandboxToolRequest struct {
	ToolName             string                `json:"ToolName"`
	ToolType             string                `json:"ToolType"`
	Description          string                `json:"Description,omitempty"`
	DefaultTimeout       string                `json:"DefaultTimeout,omitempty"`
	ClientToken          string                `json:"ClientToken,omitempty"`
	RoleArn              string                `json:"RoleArn,omitempty"`
	NetworkConfiguration *NetworkConfiguration `json:"NetworkConfiguration,omitempty"`
	CustomConfiguration  *CustomConfiguration  `json:"CustomConfiguration,omitempty"`
	Tags                 []Tag                 `json:"Tags,omitempty"`
	StorageMounts        []StorageMount        `json:"StorageMounts,omitempty"`
}

// CreateSandboxToolResponse carries the new tool id.
type CreateSandboxToolResponse struct {
	ToolId    string `json:"ToolId"`
	RequestId string `json:"RequestId"`
}

// DescribeSandboxToolListRequest lists tools, optionally filtered by id or
// tag. Limit is capped at 100 by the API.
type DescribeSandboxToolListRequest struct {
	ToolIds []string `json:"ToolIds,omitempty"`
	Filters []Filter `json:"Filters,omitempty"`
	Limit   int      `json:"Limit,omitempty"`
	Offset  int      `json:"Offset,omitempty"`
}

// DescribeSandboxToolListResponse is a page of tool records.
type DescribeSandboxToolListResponse struct {
	SandboxToolSet []SandboxTool `json:"SandboxToolSet"`
	TotalCount     int           `json:"TotalCount"`
	RequestId      string        `json:"RequestId"`
}

// DeleteSandboxToolRequest deletes a tool by id.
type DeleteSandboxToolRequest struct {
	ToolId string `json:"ToolId"`
}

// DeleteSandboxToolResponse acknowledges a delete.
type DeleteSandboxToolResponse struct {
	RequestId string `json:"RequestId"`
}

// StartSandboxInstanceRequest starts an instance from a tool, addressed by
// id or name.
type StartSandboxInstanceRequest struct {
	ToolId              string               `json:"ToolId,omitempty"`
	ToolName            string               `json:"ToolName,omitempty"`
	Timeout             string               `json:"Timeout,omitempty"`
	ClientToken         string               `json:"ClientToken,omitempty"`
	CustomConfiguration *CustomConfiguration `json:"CustomConfiguration,omitempty"`
}

// StartSandboxInstanceResponse carries the started instance.
type StartSandboxInstanceResponse struct {
	Instance  *SandboxInstance `json:"Instance"`
	RequestId string           `json:"RequestId"`
}

// StopSandboxInstanceRequest stops an instance by id.
type StopSandboxInstanceRequest struct {
	InstanceId string `json:"InstanceId"`
}

// StopSandboxInstanceResponse acknowledges a stop.
type StopSandboxInstanceResponse struct {
	RequestId string `json:"RequestId"`
}

// DescribeSandboxInstanceListRequest lists instances, optionally filtered.
type DescribeSandboxInstanceListRequest struct {
	InstanceIds []string `json:"InstanceIds,omitempty"`
	ToolId      string   `json:"ToolId,omitempty"`
	Filters     []Filter `json:"Filters,omitempty"`
	Limit       int      `json:"Limit,omitempty"`
	Offset      int      `json:"Offset,omitempty"`
}

// DescribeSandboxInstanceListResponse is a page of instance records.
type DescribeSandboxInstanceListResponse struct {
	SandboxInstanceSet []SandboxInstance `json:"SandboxInstanceSet"`
	TotalCount         int               `json:"TotalCount"`
	RequestId          string            `json:"RequestId"`
}

// AcquireSandboxInstanceTokenRequest issues an access token for an instance.
type AcquireSandboxInstanceTokenRequest struct {
	InstanceId string `json:"InstanceId"`
}

// AcquireSandboxInstanceTokenResponse carries the token and its expiry.
type AcquireSandboxInstanceTokenResponse struct {
	Token     string `json:"Token"`
	ExpiresAt string `json:"ExpiresAt"`
	RequestId string `json:"RequestId"`
}
