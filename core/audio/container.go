package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ContainerFormat is a file format the coaching backend accepts for audio
// turns.
type ContainerFormat string

const (
	ContainerWebM ContainerFormat = "webm"
	ContainerWAV  ContainerFormat = "wav"
)

// SupportedContainers lists the formats the backend declares support for,
// in order of preference.
var SupportedContainers = []ContainerFormat{ContainerWebM, ContainerWAV}

func (c ContainerFormat) IsSupported() bool {
	for _, supported := range SupportedContainers {
		if c == supported {
			return true
		}
	}
	return false
}

func (c ContainerFormat) MIMEType() string {
	switch c {
	case ContainerWebM:
		return "audio/webm"
	case ContainerWAV:
		return "audio/wav"
	}
	return "application/octet-stream"
}

// Filename is the upload name used for multipart bodies.
func (c ContainerFormat) Filename() string {
	return "recording." + string(c)
}

// Payload is a finished recording ready to be sent to the backend.
type Payload struct {
	Data         []byte
	Format       ContainerFormat
	EncodingInfo EncodingInfo
}

func (p Payload) Size() int { return len(p.Data) }

const (
	wavHeaderSize = 44
	wavFormatPCM  = 1
)

// EncodeWAV wraps raw linear16 PCM in a canonical RIFF/WAVE header.
func EncodeWAV(pcm []byte, info EncodingInfo) ([]byte, error) {
	if info.Format != EncodingLinear16 {
		return nil, fmt.Errorf("wav packaging needs linear16 samples, got %q", info.Format.Name())
	}
	if info.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", info.SampleRate)
	}

	channels := info.Channels
	if channels <= 0 {
		channels = 1
	}
	bitsPerSample := info.Format.ByteSize() * 8
	blockAlign := channels * info.Format.ByteSize()
	byteRate := info.SampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(info.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}
