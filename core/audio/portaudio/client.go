package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/macca-core/core/audio"
)

const DefaultBufferSize = 1024

// Client is a microphone backed by PortAudio. A stream is opened on every
// StartCapture and closed on StopCapture.
type Client struct {
	bufferSize   int
	encodingInfo audio.EncodingInfo

	mu        sync.Mutex
	stream    *portaudio.Stream
	in        []int16
	cancel    context.CancelFunc
	done      chan struct{}
	onFailure func(err error)
}

func NewClient(bufferSize int) (*Client, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", audio.ClassifyDeviceError(err))
	}

	return &Client{
		bufferSize:   bufferSize,
		encodingInfo: audio.GetDefaultEncodingInfo(),
	}, nil
}

func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		return nil
	}

	in := make([]int16, c.bufferSize*c.encodingInfo.Channels)
	stream, err := portaudio.OpenDefaultStream(c.encodingInfo.Channels, 0, float64(c.encodingInfo.SampleRate), c.bufferSize, in)
	if err != nil {
		return fmt.Errorf("failed to open PortAudio stream: %w", audio.ClassifyDeviceError(err))
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("failed to start PortAudio stream: %w", audio.ClassifyDeviceError(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	c.stream, c.in, c.cancel = stream, in, cancel
	c.done = make(chan struct{})
	go c.read(ctx, stream, in, onAudio, c.onFailure, c.done)
	return nil
}

func (c *Client) read(ctx context.Context, stream *portaudio.Stream, in []int16, onAudio func([]byte), onFailure func(error), done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := stream.Read(); err != nil {
			if ctx.Err() != nil {
				return
			}
			// Input overflow only means samples were dropped.
			if err == portaudio.InputOverflowed {
				logger.Debug("portaudio input overflowed")
				continue
			}
			if onFailure != nil {
				onFailure(fmt.Errorf("failed to read from PortAudio stream: %w", err))
			}
			return
		}

		audioBuffer := bytes.Buffer{}
		_ = binary.Write(&audioBuffer, binary.LittleEndian, in)
		onAudio(audioBuffer.Bytes())
	}
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}

	c.cancel()
	stopErr := c.stream.Stop()
	<-c.done
	closeErr := c.stream.Close()
	c.stream, c.in, c.cancel, c.done = nil, nil, nil, nil

	if err := errors.Join(stopErr, closeErr); err != nil {
		return fmt.Errorf("failed to release PortAudio stream: %w", err)
	}
	return nil
}

func (c *Client) SetFailureHandler(onFailure func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFailure = onFailure
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}

func (c *Client) Close() error {
	err := c.StopCapture()
	if terminateErr := portaudio.Terminate(); terminateErr != nil && err == nil {
		err = fmt.Errorf("failed to terminate PortAudio: %w", terminateErr)
	}
	return err
}
