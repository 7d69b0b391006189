package miniaudio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/macca-core/core/audio"
)

var errDeviceStopped = errors.New("capture device stopped unexpectedly")

type captureClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	encodingInfo audio.EncodingInfo

	onAudio   func(audio []byte)
	onFailure func(err error)
	stopping  atomic.Bool

	mu sync.Mutex
}

func (c *captureClient) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.audioContext == nil {
		return fmt.Errorf("audio context not initialized: %w", audio.ErrDeviceUnavailable)
	} else if c.device != nil {
		return nil
	}

	channels := c.encodingInfo.Channels
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(c.encodingInfo.SampleRate)
	config.Capture.Format = format
	config.Capture.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = 480
	config.Periods = 3

	c.onAudio = onAudio
	c.stopping.Store(false)
	onFailure := c.onFailure

	device, err := malgo.InitDevice(c.audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}
			if onAudio != nil {
				onAudio(pInput[:n])
			}
		},
		Stop: func() {
			if c.stopping.Load() {
				return
			}
			if onFailure != nil {
				onFailure(errDeviceStopped)
			}
		},
	})
	if err != nil {
		c.onAudio = nil
		return fmt.Errorf("failed to initialize capture device: %w", audio.ClassifyDeviceError(err))
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		c.onAudio = nil
		return fmt.Errorf("failed to start capture device: %w", audio.ClassifyDeviceError(err))
	}

	c.device = device
	return nil
}

func (c *captureClient) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return nil
	}

	c.stopping.Store(true)
	var err error
	if c.device.IsStarted() {
		if stopErr := c.device.Stop(); stopErr != nil {
			err = fmt.Errorf("failed to stop capture device: %w", stopErr)
		}
	}
	c.device.Uninit()
	c.device = nil
	c.onAudio = nil
	return err
}

// SetFailureHandler registers a callback for the driver stopping the device
// on its own, e.g. when the microphone is unplugged.
func (c *captureClient) SetFailureHandler(onFailure func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFailure = onFailure
}
