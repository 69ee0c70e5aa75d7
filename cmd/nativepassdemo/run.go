package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/spf13/cobra"

	"github.com/gogpu/nativepass"
	"github.com/gogpu/nativepass/internal/gpuprobe"
	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/plugin/sample"
	"github.com/gogpu/nativepass/render"
)

// runConfig holds the flags of the run command.
type runConfig struct {
	frames  int
	time    float32
	eventID int32
	event   string
	backend string
	width   int
	height  int
	library string
	gpu     bool
}

var passEvents = map[string]render.PassEvent{
	"after-opaques":      render.AfterRenderingOpaques,
	"after-skybox":       render.AfterRenderingSkybox,
	"after-transparents": render.AfterRenderingTransparents,
	"before-post":        render.BeforeRenderingPostProcessing,
	"after-rendering":    render.AfterRendering,
}

// noBackend reports no graphics API; the sample plugin draws nothing on it.
var noBackend gputypes.Backend

// openDevice opens the device used with --gpu.
var openDevice = gpuprobe.OpenVulkan

var backends = map[string]gputypes.Backend{
	"vulkan": gputypes.BackendVulkan,
	"none":   noBackend,
}

func newRunCommand() *cobra.Command {
	cfg := runConfig{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render frames with the sample native plugin",
		Long: `Render frames with the native plugin pass.

By default the sample plugin is linked in-process. With --library the entry
points are resolved from a Go plugin (.so) instead; the sample plugin is still
loaded to receive device events.

With --gpu a device is opened on the preferred Vulkan adapter and shared
with the plugin, which then creates its shader module and pipelines on it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFrames(cmd.OutOrStdout(), cfg)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&cfg.frames, "frames", "n", 3, "number of frames to render")
	f.Float32Var(&cfg.time, "time", nativepass.DefaultTime, "time value pushed into the plugin")
	f.Int32Var(&cfg.eventID, "event-id", nativepass.DefaultEventID, "event id passed to the plugin callback")
	f.StringVar(&cfg.event, "event", "after-opaques", "pass insertion point ("+keys(passEvents)+")")
	f.StringVar(&cfg.backend, "backend", "vulkan", "graphics API reported to plugins ("+keys(backends)+")")
	f.IntVar(&cfg.width, "width", 800, "target width")
	f.IntVar(&cfg.height, "height", 600, "target height")
	f.StringVar(&cfg.library, "library", "", "path to a native plugin built with -buildmode=plugin")
	f.BoolVar(&cfg.gpu, "gpu", false, "open a GPU device and share it with the plugin")

	return cmd
}

func runFrames(out io.Writer, cfg runConfig) error {
	event, ok := passEvents[cfg.event]
	if !ok {
		return fmt.Errorf("unknown event %q (want one of %s)", cfg.event, keys(passEvents))
	}
	backend, ok := backends[cfg.backend]
	if !ok {
		return fmt.Errorf("unknown backend %q (want one of %s)", cfg.backend, keys(backends))
	}
	if cfg.frames < 0 {
		return fmt.Errorf("frames must be >= 0, got %d", cfg.frames)
	}

	opts := []render.PipelineOption{render.WithBackend(backend)}
	if cfg.gpu {
		dev, err := openDevice()
		if err != nil {
			return fmt.Errorf("open GPU device: %w", err)
		}
		defer dev.Close()
		info := dev.AdapterInfo()
		fmt.Fprintf(out, "device: %s (%v)\n", info.Name, info.Type)
		opts = append(opts, render.WithDevice(dev))
	}

	pipeline := render.NewPipeline(opts...)
	defer pipeline.Close()

	native := sample.New()
	if err := native.Load(pipeline.Graphics()); err != nil {
		return fmt.Errorf("load sample plugin: %w", err)
	}
	defer native.Unload()

	lib, err := link(cfg.library, native)
	if err != nil {
		return err
	}

	feature := nativepass.NewFeature(lib,
		nativepass.WithTime(cfg.time),
		nativepass.WithEventID(cfg.eventID),
		nativepass.WithEvent(event),
	)
	if err := pipeline.AddFeature(feature); err != nil {
		return err
	}
	if err := pipeline.Build(); err != nil {
		return err
	}

	target := render.NewPixmapTarget(cfg.width, cfg.height)
	for range cfg.frames {
		stats, err := pipeline.RenderFrame(target)
		if err != nil {
			return err
		}
		printFrame(out, stats, pipeline.Graphics().DeviceCommands())
	}
	return nil
}

func link(path string, native *sample.Plugin) (plugin.Library, error) {
	if path == "" {
		return plugin.Load(sample.LibraryName, native.Symbols())
	}
	lib, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open native plugin: %w", err)
	}
	return lib, nil
}

func printFrame(out io.Writer, stats render.FrameStats, cmds []render.DeviceCommand) {
	fmt.Fprintf(out, "frame %d: passes=%s buffers=%d\n",
		stats.Frame, strings.Join(stats.Passes, ","), stats.CommandBuffers)
	for _, c := range cmds {
		switch c.Op {
		case render.OpBeginSample, render.OpEndSample, render.OpBindPipeline:
			fmt.Fprintf(out, "  %-16s %s\n", c.Op, c.Label)
		case render.OpBindVertexBuffer:
			fmt.Fprintf(out, "  %-16s slot=%d bytes=%d\n", c.Op, c.Slot, len(c.Data))
		case render.OpPushConstants:
			fmt.Fprintf(out, "  %-16s floats=%d\n", c.Op, len(c.Constants))
		case render.OpDraw:
			fmt.Fprintf(out, "  %-16s vertices=%d instances=%d\n", c.Op, c.VertexCount, c.InstanceCount)
		}
	}
}

func keys[V any](m map[string]V) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
