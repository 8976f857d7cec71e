package sync

import (
	"github.com/google/uuid"
	"github.com/lirong-lirong/ags-tool/internal/ags"
)

// The envd sandbox profile. Every tool created by a sync run launches the
// envd runtime out of a read-only image mount and health-checks it over
// HTTP.
const (
	envdPort       = 49983
	envdMountPath  = "/mnt/envd"
	envdSubPath    = "/usr/bin/envd"
	envdMountImage = "ccr.ccs.tencentyun.com/archerlliu/envd:20260115_201017"
)

// ToolSpec carries the run-level parameters folded into every create
// request.
type ToolSpec struct {
	ImageRegistryType string
	RoleArn           string
}

// NewCreateRequest builds the CreateSandboxTool request for one plan entry.
// The ClientToken makes the create idempotent on the control-plane side.
func NewCreateRequest(entry PlanEntry, spec ToolSpec) *ags.CreateSandboxToolRequest {
	return &ags.CreateSandboxToolRequest{
		ToolName:       entry.ToolName,
		ToolType:       "custom",
		Description:    "SWE sandbox for " + entry.TCRImage,
		DefaultTimeout: "5m",
		ClientToken:    uuid.NewString(),
		RoleArn:        spec.RoleArn,
		NetworkConfiguration: &ags.NetworkConfiguration{
			NetworkMode: "PUBLIC",
		},
		CustomConfiguration: &ags.CustomConfiguration{
			Image:             entry.TCRImage,
			ImageRegistryType: spec.ImageRegistryType,
			Command:           []string{"/bin/bash", "-c"},
			Args:              []string{"/mnt/envd -port 49983"},
			Ports: []ags.PortConfiguration{
				{Name: "envd", Port: envdPort, Protocol: "TCP"},
			},
			Env: []ags.EnvVar{
				{Name: "LANG", Value: "en_US.UTF-8"},
				{Name: "PATH", Value: "/envd/bin:/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"},
				{Name: "DEBIAN_FRONTEND", Value: "noninteractive"},
				{Name: "PYTHONUNBUFFERED", Value: "1"},
			},
			Resources: &ags.ResourceConfiguration{CPU: "1", Memory: "2Gi"},
			Probe: &ags.ProbeConfiguration{
				HTTPGet: &ags.HTTPGetAction{
					Path:   "/health",
					Port:   envdPort,
					Scheme: "HTTP",
				},
				ReadyTimeoutMs:   30000,
				ProbeTimeoutMs:   1000,
				ProbePeriodMs:    2000,
				SuccessThreshold: 1,
				FailureThreshold: 30,
			},
		},
		Tags: []ags.Tag{
			{Key: "image", Value: entry.Source},
			{Key: "tcr_image", Value: entry.TCRImage},
		},
		StorageMounts: []ags.StorageMount{
			{
				Name:      "envd-storage",
				MountPath: envdMountPath,
				ReadOnly:  true,
				StorageSource: &ags.StorageSource{
					Image: &ags.ImageStorageSource{
						Reference:         envdMountImage,
						ImageRegistryType: "personal",
						SubPath:           envdSubPath,
					},
				},
			},
		},
	}
}
