package main

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gpucmd/backend/halgpu"
	"github.com/gogpu/gpucmd/backend/trace"
)

// openNoopBackend opens a HAL noop device and returns a halgpu backend on it
// whose draw-family work goes to a trace backend.
func openNoopBackend() (*halgpu.Backend, *trace.Backend, func(), error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, errors.New("no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("open device: %w", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}

	fallback := trace.New(nil)
	b, err := halgpu.New(openDev.Device, openDev.Queue, fallback)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return b, fallback, cleanup, nil
}
