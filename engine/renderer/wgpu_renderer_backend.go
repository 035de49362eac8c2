package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	hdrFormat   = wgpu.TextureFormatRGBA16Float
	depthFormat = wgpu.TextureFormatDepth24Plus

	// initialInstanceCapacity is the instance storage size allocated before the first frame.
	initialInstanceCapacity = 64

	// meshEvictFrames is how many frames a geometry may go undrawn before its buffers are freed.
	meshEvictFrames = 600
)

// post pass slots, in execution order.
const (
	postBright = iota
	postBlurH
	postBlurV
	postOutput
	postPassCount
)

type meshEntry struct {
	provider bind_group_provider.BindGroupProvider
	lastUsed uint64
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	encodeSRGB    bool
	presentMode   wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	sampleCount   MSAASampleCount  // MSAA sample count for the geometry pass

	width, height           int
	bloomWidth, bloomHeight int

	// Size-dependent render targets, rebuilt by ConfigureSurface. Each holds its texture at binding 0.

	msaaTarget   bind_group_provider.BindGroupProvider
	depthTarget  bind_group_provider.BindGroupProvider
	sceneTarget  bind_group_provider.BindGroupProvider
	bloomTargets [2]bind_group_provider.BindGroupProvider

	scenePipeline pipeline.Pipeline
	postPipelines [postPassCount]pipeline.Pipeline

	globalsLayout   *wgpu.BindGroupLayout
	instancesLayout *wgpu.BindGroupLayout
	postLayout      *wgpu.BindGroupLayout
	sampler         *wgpu.Sampler

	globals   bind_group_provider.BindGroupProvider
	instances bind_group_provider.BindGroupProvider
	post      [postPassCount]bind_group_provider.BindGroupProvider

	meshes     map[*geometry.Geometry]*meshEntry
	frameIndex uint64
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the instance, surface, adapter and device. Device creation failures panic.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) RendererBackend {
	runtime.LockOSThread()
	if sampleCount == 0 {
		sampleCount = MSAAOff
	}
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		meshes:      make(map[*geometry.Geometry]*meshEntry),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.encodeSRGB = !isSRGB(b.surfaceFormat)

	if err := b.initStatic(); err != nil {
		panic(err)
	}
	return b
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height, bloomWidth, bloomHeight int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	width, height = max(width, 1), max(height, 1)
	bloomWidth, bloomHeight = max(bloomWidth, 1), max(bloomHeight, 1)

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	samples := uint32(b.sampleCount)
	var err error
	if samples > 1 {
		// The geometry pass draws into the MSAA target and resolves into the scene target.
		if b.msaaTarget, err = b.createTarget("MSAA Target", width, height, hdrFormat, samples, wgpu.TextureUsageRenderAttachment); err != nil {
			return err
		}
	}
	if b.depthTarget, err = b.createTarget("Depth Target", width, height, depthFormat, samples, wgpu.TextureUsageRenderAttachment); err != nil {
		return err
	}
	sampled := wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding
	if b.sceneTarget, err = b.createTarget("Scene Target", width, height, hdrFormat, 1, sampled); err != nil {
		return err
	}
	for i := range b.bloomTargets {
		label := fmt.Sprintf("Bloom Target %d", i)
		if b.bloomTargets[i], err = b.createTarget(label, bloomWidth, bloomHeight, hdrFormat, 1, sampled); err != nil {
			return err
		}
	}

	b.width, b.height = width, height
	b.bloomWidth, b.bloomHeight = bloomWidth, bloomHeight

	return b.buildPostBindGroups()
}

func (b *wgpuRendererBackendImpl) Draw(frame *FrameData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sceneTarget == nil {
		return errors.New("surface not configured")
	}
	b.frameIndex++

	if err := b.ensureInstanceCapacity(len(frame.Instances)); err != nil {
		return err
	}
	writes := []bind_group_provider.BufferWrite{
		{Provider: b.globals, Binding: 0, Data: frame.Camera},
		{Provider: b.globals, Binding: 1, Data: frame.Lights},
		{Provider: b.instances, Binding: 0, Data: frame.Instances},
	}
	writes = append(writes, b.postWrites(frame.Post)...)
	if err := b.writeBuffers(writes); err != nil {
		return err
	}

	meshes := make([]bind_group_provider.BindGroupProvider, len(frame.Batches))
	for i, batch := range frame.Batches {
		m, err := b.mesh(batch.Geometry)
		if err != nil {
			return err
		}
		meshes[i] = m
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	surfaceView, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer surfaceView.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	b.encodeScenePass(encoder, frame, meshes)
	if frame.Post.Bloom {
		b.encodePostPass(encoder, postBright, b.bloomTargets[0].TextureView(0))
		b.encodePostPass(encoder, postBlurH, b.bloomTargets[1].TextureView(0))
		b.encodePostPass(encoder, postBlurV, b.bloomTargets[0].TextureView(0))
	}
	b.encodePostPass(encoder, postOutput, surfaceView)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()

	b.evictMeshes()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseTargets()
	for g, m := range b.meshes {
		m.provider.Release()
		delete(b.meshes, g)
	}
	for i, p := range b.post {
		if p != nil {
			p.Release()
			b.post[i] = nil
		}
	}
	for _, p := range []bind_group_provider.BindGroupProvider{b.globals, b.instances} {
		if p != nil {
			p.Release()
		}
	}
	b.globals, b.instances = nil, nil
	if b.scenePipeline != nil {
		b.scenePipeline.Release()
	}
	for _, p := range b.postPipelines {
		if p != nil {
			p.Release()
		}
	}
	for _, l := range []*wgpu.BindGroupLayout{b.globalsLayout, b.instancesLayout, b.postLayout} {
		if l != nil {
			l.Release()
		}
	}
	b.globalsLayout, b.instancesLayout, b.postLayout = nil, nil, nil
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// initStatic creates the size-independent resources: layouts, pipelines, the sampler and the uniform buffers.
func (b *wgpuRendererBackendImpl) initStatic() error {
	var err error
	cameraUniform := camera.GPUCameraUniform{}

	b.globalsLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Globals Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, uint64(cameraUniform.Size())),
			uniformEntry(1, wgpu.ShaderStageFragment, light.UniformSize),
		},
	})
	if err != nil {
		return fmt.Errorf("create globals layout: %w", err)
	}

	instancesEntry := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageVertex}
	instancesEntry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	b.instancesLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Instances Layout",
		Entries: []wgpu.BindGroupLayoutEntry{instancesEntry},
	})
	if err != nil {
		return fmt.Errorf("create instances layout: %w", err)
	}

	post := GPUPostUniform{}
	b.postLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Post Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageFragment, uint64(post.Size())),
			textureEntry(1),
			samplerEntry(2),
			textureEntry(3),
		},
	})
	if err != nil {
		return fmt.Errorf("create post layout: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(samplerDescriptor("Post Sampler", common.SamplerStagingData{}))
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}

	b.globals = bind_group_provider.NewBindGroupProvider("Globals", bind_group_provider.WithSharedLayout(b.globalsLayout))
	if err := b.createBuffer(b.globals, 0, uint64(cameraUniform.Size()), wgpu.BufferUsageUniform); err != nil {
		return err
	}
	if err := b.createBuffer(b.globals, 1, light.UniformSize, wgpu.BufferUsageUniform); err != nil {
		return err
	}
	if err := b.buildBindGroup(b.globals, []wgpu.BindGroupEntry{
		bufferBinding(b.globals, 0),
		bufferBinding(b.globals, 1),
	}); err != nil {
		return err
	}

	b.instances = bind_group_provider.NewBindGroupProvider("Instances", bind_group_provider.WithSharedLayout(b.instancesLayout))
	if err := b.ensureInstanceCapacity(initialInstanceCapacity * 80); err != nil {
		return err
	}

	for i := range b.post {
		b.post[i] = bind_group_provider.NewBindGroupProvider(postLabel(i),
			bind_group_provider.WithSharedLayout(b.postLayout),
			bind_group_provider.WithSampler(2, b.sampler),
		)
		if err := b.createBuffer(b.post[i], 0, uint64(post.Size()), wgpu.BufferUsageUniform); err != nil {
			return err
		}
	}

	return b.initPipelines()
}

func (b *wgpuRendererBackendImpl) initPipelines() error {
	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: geometry.VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
	b.scenePipeline = pipeline.NewPipeline("Scene",
		pipeline.WithVertexShader(SceneShaderSource, "vs_main"),
		pipeline.WithFragmentShader(SceneShaderSource, "fs_main"),
		pipeline.WithVertexLayouts(vertexLayout),
		pipeline.WithFormat(hdrFormat),
		pipeline.WithSampleCount(uint32(b.sampleCount)),
		pipeline.WithDepthFormat(depthFormat),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	if err := b.registerRenderPipeline(b.scenePipeline, []*wgpu.BindGroupLayout{b.globalsLayout, b.instancesLayout}); err != nil {
		return err
	}

	fragments := [postPassCount]string{"fs_bright", "fs_blur", "fs_blur", "fs_output"}
	for i := range b.postPipelines {
		format := hdrFormat
		if i == postOutput {
			format = b.surfaceFormat
		}
		b.postPipelines[i] = pipeline.NewPipeline(postLabel(i),
			pipeline.WithVertexShader(PostShaderSource, "vs_fullscreen"),
			pipeline.WithFragmentShader(PostShaderSource, fragments[i]),
			pipeline.WithFormat(format),
			pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		)
		if err := b.registerRenderPipeline(b.postPipelines[i], []*wgpu.BindGroupLayout{b.postLayout}); err != nil {
			return err
		}
	}
	return nil
}

func (b *wgpuRendererBackendImpl) registerRenderPipeline(p pipeline.Pipeline, layouts []*wgpu.BindGroupLayout) error {
	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " Vertex",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Vertex().Source,
		},
	})
	if err != nil {
		return fmt.Errorf("%s vertex shader: %w", p.PipelineKey(), err)
	}
	defer vs.Release()

	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " Fragment",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Fragment().Source,
		},
	})
	if err != nil {
		return fmt.Errorf("%s fragment shader: %w", p.PipelineKey(), err)
	}
	defer fs.Release()

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: p.Vertex().EntryPoint,
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: p.Fragment().EntryPoint,
			Targets:    []wgpu.ColorTargetState{p.ColorTargetState()},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: p.SampleCount(),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: p.DepthStencilState(),
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline: %w", p.PipelineKey(), err)
	}
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) encodeScenePass(encoder *wgpu.CommandEncoder, frame *FrameData, meshes []bind_group_provider.BindGroupProvider) {
	color := wgpu.RenderPassColorAttachment{
		View:    b.sceneTarget.TextureView(0),
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(frame.ClearColor[0]),
			G: float64(frame.ClearColor[1]),
			B: float64(frame.ClearColor[2]),
			A: float64(frame.ClearColor[3]),
		},
	}
	if b.msaaTarget != nil {
		// Don't store MSAA data, just resolve
		color.View = b.msaaTarget.TextureView(0)
		color.ResolveTarget = b.sceneTarget.TextureView(0)
		color.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Scene Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTarget.TextureView(0),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	defer pass.Release()

	if len(frame.Batches) > 0 {
		pass.SetPipeline(b.scenePipeline.RenderPipeline())
		pass.SetBindGroup(0, b.globals.BindGroup(), nil)
		pass.SetBindGroup(1, b.instances.BindGroup(), nil)
		for i, batch := range frame.Batches {
			m := meshes[i]
			pass.SetVertexBuffer(0, m.VertexBuffer(), 0, wgpu.WholeSize)
			pass.SetIndexBuffer(m.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			pass.DrawIndexed(uint32(m.IndexCount()), batch.Count, 0, 0, batch.First)
		}
	}
	pass.End()
}

func (b *wgpuRendererBackendImpl) encodePostPass(encoder *wgpu.CommandEncoder, slot int, target *wgpu.TextureView) {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: postLabel(slot),
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{A: 1},
		}},
	})
	defer pass.Release()

	pass.SetPipeline(b.postPipelines[slot].RenderPipeline())
	pass.SetBindGroup(0, b.post[slot].BindGroup(), nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
}

// postWrites builds the uniform writes for the fullscreen passes. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) postWrites(p PostParams) []bind_group_provider.BufferWrite {
	bright := p.Uniform(mgl32.Vec2{}, b.width, b.height)
	blurH := p.Uniform(mgl32.Vec2{1, 0}, b.bloomWidth, b.bloomHeight)
	blurV := p.Uniform(mgl32.Vec2{0, 1}, b.bloomWidth, b.bloomHeight)
	output := p.Uniform(mgl32.Vec2{}, b.width, b.height)
	if b.encodeSRGB {
		output.EncodeSRGB = 1
	}
	return []bind_group_provider.BufferWrite{
		{Provider: b.post[postBright], Binding: 0, Data: bright.Marshal()},
		{Provider: b.post[postBlurH], Binding: 0, Data: blurH.Marshal()},
		{Provider: b.post[postBlurV], Binding: 0, Data: blurV.Marshal()},
		{Provider: b.post[postOutput], Binding: 0, Data: output.Marshal()},
	}
}

// buildPostBindGroups binds each fullscreen pass to its source and bloom textures. Binding 3 never
// aliases the pass's own render target. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) buildPostBindGroups() error {
	scene := b.sceneTarget.TextureView(0)
	a := b.bloomTargets[0].TextureView(0)
	c := b.bloomTargets[1].TextureView(0)
	sources := [postPassCount][2]*wgpu.TextureView{
		postBright: {scene, scene},
		postBlurH:  {a, a},
		postBlurV:  {c, c},
		postOutput: {scene, a},
	}
	for i, p := range b.post {
		p.SetTexture(1, nil, sources[i][0])
		p.SetTexture(3, nil, sources[i][1])
		err := b.buildBindGroup(p, []wgpu.BindGroupEntry{
			bufferBinding(p, 0),
			{Binding: 1, TextureView: p.TextureView(1)},
			{Binding: 2, Sampler: p.Sampler(2)},
			{Binding: 3, TextureView: p.TextureView(3)},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ensureInstanceCapacity grows the instance storage buffer to hold size bytes, doubling. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) ensureInstanceCapacity(size int) error {
	current := b.instances.BufferSize(0)
	if uint64(size) <= current && b.instances.BindGroup() != nil {
		return nil
	}
	capacity := max(current, initialInstanceCapacity*80)
	for capacity < uint64(size) {
		capacity *= 2
	}
	if err := b.createBuffer(b.instances, 0, capacity, wgpu.BufferUsageStorage); err != nil {
		return err
	}
	return b.buildBindGroup(b.instances, []wgpu.BindGroupEntry{bufferBinding(b.instances, 0)})
}

// mesh returns the GPU buffers of a geometry, uploading on first use. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) mesh(g *geometry.Geometry) (bind_group_provider.BindGroupProvider, error) {
	if m, ok := b.meshes[g]; ok {
		m.lastUsed = b.frameIndex
		return m.provider, nil
	}

	provider := bind_group_provider.NewBindGroupProvider(g.Label())
	vertexData := common.SliceToBytes(g.Vertices())
	indexData := common.SliceToBytes(g.Indices())

	vertexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	indexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, err
	}
	b.queue.WriteBuffer(vertexBuffer, 0, vertexData)
	b.queue.WriteBuffer(indexBuffer, 0, indexData)
	provider.SetMesh(vertexBuffer, indexBuffer, g.IndexCount())

	b.meshes[g] = &meshEntry{provider: provider, lastUsed: b.frameIndex}
	return provider, nil
}

// evictMeshes frees geometries that have not been drawn recently. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) evictMeshes() {
	for g, m := range b.meshes {
		if b.frameIndex-m.lastUsed > meshEvictFrames {
			m.provider.Release()
			delete(b.meshes, g)
		}
	}
}

func (b *wgpuRendererBackendImpl) writeBuffers(writes []bind_group_provider.BufferWrite) error {
	for _, w := range writes {
		if len(w.Data) == 0 {
			continue
		}
		if !w.Fits() {
			return fmt.Errorf("%s binding %d: write of %d bytes does not fit", w.Provider.Label(), w.Binding, len(w.Data))
		}
		b.queue.WriteBuffer(w.Provider.Buffer(w.Binding), w.Offset, w.Data)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) createTarget(label string, width, height int, format wgpu.TextureFormat, samples uint32, usage wgpu.TextureUsage) (bind_group_provider.BindGroupProvider, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	p := bind_group_provider.NewBindGroupProvider(label)
	p.SetTexture(0, tex, view)
	return p, nil
}

func (b *wgpuRendererBackendImpl) createBuffer(p bind_group_provider.BindGroupProvider, binding int, size uint64, usage wgpu.BufferUsage) error {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Label() + " Buffer",
		Size:  size,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s buffer: %w", p.Label(), err)
	}
	p.SetBuffer(binding, buf, size)
	return nil
}

func (b *wgpuRendererBackendImpl) buildBindGroup(p bind_group_provider.BindGroupProvider, entries []wgpu.BindGroupEntry) error {
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.Label() + " Bind Group",
		Layout:  p.BindGroupLayout(),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", p.Label(), err)
	}
	p.SetBindGroup(bg)
	return nil
}

// releaseTargets frees the size-dependent targets. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseTargets() {
	for _, t := range []bind_group_provider.BindGroupProvider{b.msaaTarget, b.depthTarget, b.sceneTarget, b.bloomTargets[0], b.bloomTargets[1]} {
		if t != nil {
			t.Release()
		}
	}
	b.msaaTarget, b.depthTarget, b.sceneTarget = nil, nil, nil
	b.bloomTargets = [2]bind_group_provider.BindGroupProvider{}
}

func bufferBinding(p bind_group_provider.BindGroupProvider, binding int) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{
		Binding: uint32(binding),
		Buffer:  p.Buffer(binding),
		Offset:  0,
		Size:    wgpu.WholeSize,
	}
}

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = size
	return entry
}

func textureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	return entry
}

// samplerDescriptor applies the fields set in the staging data over the backend defaults.
func samplerDescriptor(label string, data common.SamplerStagingData) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Choose(data.Has(common.SamplerAddressModeU), data.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Choose(data.Has(common.SamplerAddressModeV), data.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Choose(data.Has(common.SamplerAddressModeW), data.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Choose(data.Has(common.SamplerMagFilter), data.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Choose(data.Has(common.SamplerMinFilter), data.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Choose(data.Has(common.SamplerMipmapFilter), data.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Choose(data.Has(common.SamplerLodMinClamp), data.LodMinClamp, 0),
		LodMaxClamp:   common.Choose(data.Has(common.SamplerLodMaxClamp), data.LodMaxClamp, 32),
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
	}
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	return entry
}

func postLabel(slot int) string {
	switch slot {
	case postBright:
		return "Bloom Bright Pass"
	case postBlurH:
		return "Bloom Blur H Pass"
	case postBlurV:
		return "Bloom Blur V Pass"
	default:
		return "Output Pass"
	}
}

func isSRGB(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb:
		return true
	default:
		return false
	}
}
