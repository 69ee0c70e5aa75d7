package sample

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/nativepass/plugin"
)

// RenderAPI is the per-backend part of the plugin.
type RenderAPI interface {
	// ProcessDeviceEvent handles initialization, shutdown and device
	// resets. g is the host graphics interface the plugin was loaded with.
	ProcessDeviceEvent(ev plugin.DeviceEvent, g plugin.Graphics) error

	// UsesReverseZ reports whether the depth buffer is reversed (1.0 at
	// the near plane, 0.0 at the far plane).
	UsesReverseZ() bool

	// DrawColoredTriangle records the triangle draw rotated by t radians
	// into the host's current command stream.
	DrawColoredTriangle(t float32)
}

// CreateRenderAPI returns the render API for backend, or nil when the
// backend is not supported. Only Vulkan is supported.
func CreateRenderAPI(backend gputypes.Backend) RenderAPI {
	if backend == gputypes.BackendVulkan {
		return newVulkanAPI()
	}
	return nil
}

// Triangle geometry: float32x3 position followed by an RGBA8 color.
const (
	vertexStride   = 16
	triangleDepth  = 0.7
	triangleVertex = 3

	// worldMatrixBytes is the push constant range holding the 4x4 matrix.
	worldMatrixBytes = 16 * 4
)

// trianglePipelineLabel names the pipeline bound for the triangle draw.
const trianglePipelineLabel = "sample/triangle"

type vertex struct {
	x, y, z float32
	color   uint32
}

var triangleVertices = [triangleVertex]vertex{
	{-0.5, -0.25, 0, 0xFFff0000},
	{0.5, -0.25, 0, 0xFF00ff00},
	{0, 0.5, 0, 0xFF0000ff},
}

var triangleLayout = gputypes.VertexBufferLayout{
	ArrayStride: vertexStride,
	StepMode:    gputypes.VertexStepModeVertex,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
		{Format: gputypes.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 1}, // color
	},
}

// vulkanAPI draws the triangle into the host's Vulkan render pass.
//
// When the host device is a hal.Device the shader module, pipeline layout
// and render pipeline are real device objects. Otherwise only the command
// stream is recorded.
type vulkanAPI struct {
	mu sync.Mutex
	g  plugin.Graphics

	shader   []uint32
	vertices []byte
	gpu      *triangleGPU

	// The pipeline is tied to the render pass it was built for and is
	// rebuilt when the host switches passes.
	hasPipeline        bool
	pipelineRenderPass uint64
	pipelineBuilds     int
}

func newVulkanAPI() *vulkanAPI {
	return &vulkanAPI{}
}

func (a *vulkanAPI) ProcessDeviceEvent(ev plugin.DeviceEvent, g plugin.Graphics) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev {
	case plugin.DeviceEventInitialize:
		shader, err := shaders.compile(triangleShaderWGSL)
		if err != nil {
			return fmt.Errorf("sample: triangle shader: %w", err)
		}
		if dev := halDevice(g); dev != nil {
			gpu, err := newTriangleGPU(dev, shader)
			if err != nil {
				return err
			}
			a.gpu = gpu
		}
		a.g = g
		a.shader = shader
		a.vertices = encodeVertices(triangleVertices[:])
		slogger().Info("sample: created vertex buffer",
			"bytes", len(a.vertices),
			"device", a.gpu != nil)
	case plugin.DeviceEventShutdown:
		if a.gpu != nil {
			a.gpu.destroy()
			a.gpu = nil
		}
		a.g = nil
		a.shader = nil
		a.vertices = nil
		a.hasPipeline = false
		a.pipelineRenderPass = 0
	}
	return nil
}

func (a *vulkanAPI) UsesReverseZ() bool { return true }

func (a *vulkanAPI) DrawColoredTriangle(t float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.g == nil {
		return
	}
	state, ok := a.g.RecordingState()
	if !ok || state.Recorder == nil {
		return
	}

	// A zero render pass means no attachments are bound; nothing can be
	// drawn and no pipeline can be built for it.
	if state.RenderPass == 0 {
		return
	}
	if !a.hasPipeline || state.RenderPass != a.pipelineRenderPass {
		if a.gpu != nil {
			if err := a.gpu.buildPipeline(state.Format); err != nil {
				a.hasPipeline = false
				slogger().Error("sample: triangle pipeline", "renderPass", state.RenderPass, "err", err)
				return
			}
		}
		a.hasPipeline = true
		a.pipelineRenderPass = state.RenderPass
		a.pipelineBuilds++
		slogger().Debug("sample: triangle pipeline built",
			"renderPass", state.RenderPass,
			"format", state.Format,
			"shaderWords", len(a.shader))
	}

	world := worldMatrix(t, a.UsesReverseZ())
	rec := state.Recorder
	rec.BindVertexBuffer(0, a.vertices, triangleLayout)
	rec.PushConstants(0, world[:])
	rec.BindPipeline(trianglePipelineLabel)
	rec.Draw(triangleVertex, 1, 0, 0)
}

// halDevice returns the host device as a hal.Device, or nil when the host
// has none or exposes a different device type.
func halDevice(g plugin.Graphics) hal.Device {
	if g == nil {
		return nil
	}
	provider := g.Device()
	if provider == nil {
		return nil
	}
	dev, _ := provider.Device().(hal.Device)
	return dev
}

// triangleGPU owns the device objects of the triangle draw.
type triangleGPU struct {
	device   hal.Device
	module   hal.ShaderModule
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline
}

func newTriangleGPU(dev hal.Device, spirv []uint32) (*triangleGPU, error) {
	module, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  trianglePipelineLabel,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("sample: create shader module: %w", err)
	}
	layout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: trianglePipelineLabel,
		PushConstantRanges: []hal.PushConstantRange{{
			Stages: gputypes.ShaderStageVertex,
			Range:  hal.Range{Start: 0, End: worldMatrixBytes},
		}},
	})
	if err != nil {
		dev.DestroyShaderModule(module)
		return nil, fmt.Errorf("sample: create pipeline layout: %w", err)
	}
	return &triangleGPU{device: dev, module: module, layout: layout}, nil
}

// buildPipeline replaces the render pipeline with one targeting format.
func (g *triangleGPU) buildPipeline(format gputypes.TextureFormat) error {
	if g.pipeline != nil {
		g.device.DestroyRenderPipeline(g.pipeline)
		g.pipeline = nil
	}
	pipeline, err := g.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  trianglePipelineLabel,
		Layout: g.layout,
		Vertex: hal.VertexState{
			Module:     g.module,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{triangleLayout},
		},
		Primitive:   gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     g.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	g.pipeline = pipeline
	return nil
}

func (g *triangleGPU) destroy() {
	if g.pipeline != nil {
		g.device.DestroyRenderPipeline(g.pipeline)
		g.pipeline = nil
	}
	if g.layout != nil {
		g.device.DestroyPipelineLayout(g.layout)
		g.layout = nil
	}
	if g.module != nil {
		g.device.DestroyShaderModule(g.module)
		g.module = nil
	}
}

// worldMatrix rotates around Z by phi radians and places the triangle at a
// fixed depth, flipped for reverse-Z depth buffers. The matrix is row-major
// with the translation in the last row.
func worldMatrix(phi float32, reverseZ bool) f32.Mat4 {
	sin, cos := math.Sincos(float64(phi))
	s, c := float32(sin), float32(cos)
	depth := float32(triangleDepth)
	if reverseZ {
		depth = 1 - depth
	}
	return f32.Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, depth, 1,
	}
}

func encodeVertices(vs []vertex) []byte {
	buf := make([]byte, 0, len(vs)*vertexStride)
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.x))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.y))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.z))
		buf = binary.LittleEndian.AppendUint32(buf, v.color)
	}
	return buf
}
