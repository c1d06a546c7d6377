package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/libdecl/internal/config"
)

// hclEnvironment is the decoding target of an `environment {}` block.
type hclEnvironment struct {
	Platform      string              `hcl:"platform,optional"`
	ContainerName string              `hcl:"container_name,optional"`
	Fields        map[string]string   `hcl:"fields,optional"`
	Groups        map[string][]string `hcl:"groups,optional"`
}

// translateEnvironment converts an `environment` block. Values must be
// literals; there is no evaluation context.
func translateEnvironment(block *hcl.Block) (*config.Environment, hcl.Diagnostics) {
	var raw hclEnvironment
	diags := gohcl.DecodeBody(block.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, diags
	}

	env := config.NewEnvironment()
	env.Platform = raw.Platform
	env.ContainerName = raw.ContainerName
	for k, v := range raw.Fields {
		env.Fields[k] = v
	}
	for name, libs := range raw.Groups {
		env.SetGroup(name, libs...)
	}
	return env, diags
}
