//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/offset.wgsl
var offsetShaderWGSL string

// offsetUniformSize is the size of the Params struct in offset.wgsl.
const offsetUniformSize = 16

// offsetPipeline holds the shared shader and layouts of the offset pass and
// one render pipeline per target format, created on first use.
type offsetPipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	uniforms   hal.Buffer
	pipelines  map[gputypes.TextureFormat]hal.RenderPipeline
}

func newOffsetPipeline(device hal.Device) (*offsetPipeline, error) {
	p := &offsetPipeline{
		device:    device,
		pipelines: make(map[gputypes.TextureFormat]hal.RenderPipeline),
	}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "offset_shader",
		Source: hal.ShaderSource{WGSL: offsetShaderWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("compile offset shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: Params (uniform buffer, fragment)
	//   Binding 1: source plane (texture_2d, fragment)
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "offset_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create offset bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "offset_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create offset pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	uniforms, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offset_uniforms",
		Size:  offsetUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create offset uniforms: %w", err)
	}
	p.uniforms = uniforms
	return p, nil
}

// pipeline returns the render pipeline writing format, creating it if
// needed.
func (p *offsetPipeline) pipeline(format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if rp, ok := p.pipelines[format]; ok {
		return rp, nil
	}
	rp, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("offset_pipeline_%d", format),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{Format: format, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return nil, fmt.Errorf("create offset pipeline: %w", err)
	}
	p.pipelines[format] = rp
	return rp, nil
}

// bindGroup binds the uniforms and the source view.
func (p *offsetPipeline) bindGroup(src hal.TextureView) (hal.BindGroup, error) {
	return p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "offset_bind_group",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniforms.NativeHandle(), Offset: 0, Size: offsetUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: src.NativeHandle(),
			}},
		},
	})
}

func (p *offsetPipeline) destroy() {
	for f, rp := range p.pipelines {
		p.device.DestroyRenderPipeline(rp)
		delete(p.pipelines, f)
	}
	if p.uniforms != nil {
		p.device.DestroyBuffer(p.uniforms)
		p.uniforms = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// offsetUniform encodes the Params struct.
func offsetUniform(offset float32) []byte {
	buf := make([]byte, offsetUniformSize)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(offset))
	return buf
}
