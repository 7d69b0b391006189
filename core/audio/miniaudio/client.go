package miniaudio

import (
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/macca-core/core/audio"
)

// Client is a microphone backed by miniaudio. The capture device is only
// initialized while a recording is running so the handle is never held
// between recordings.
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	captureClient
}

func NewClient(opts ...ClientOption) (*Client, error) {
	client := Client{
		captureClient: captureClient{encodingInfo: audio.GetDefaultEncodingInfo()},
	}
	for _, opt := range opts {
		opt(&client)
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", audio.ClassifyDeviceError(err))
	}
	client.audioContext = audioCtx
	client.captureClient.audioContext = audioCtx

	return &client, nil
}

type ClientOption func(*Client)

// WithSampleRate overrides the default 16kHz capture rate.
func WithSampleRate(sampleRate int) ClientOption {
	return func(c *Client) {
		if sampleRate > 0 {
			c.encodingInfo.SampleRate = sampleRate
		}
	}
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}

func (c *Client) Close() error {
	err := c.captureClient.StopCapture()
	if c.audioContext != nil {
		_ = c.audioContext.Uninit()
		c.audioContext.Free()
		c.audioContext = nil
	}
	return err
}
