package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeWAVWritesHeader(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x01, 0x00}, 100)

	wav, err := EncodeWAV(pcm, GetDefaultEncodingInfo())
	if err != nil {
		t.Fatalf("expected wav encoding to succeed, got %v", err)
	}

	if got, want := len(wav), wavHeaderSize+len(pcm); got != want {
		t.Fatalf("expected %d bytes, got %d", want, got)
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("expected RIFF/WAVE magic, got %q %q", wav[0:4], wav[8:12])
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != DefaultSampleRate {
		t.Fatalf("expected sample rate %d, got %d", DefaultSampleRate, got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); int(got) != len(pcm) {
		t.Fatalf("expected data chunk size %d, got %d", len(pcm), got)
	}
	if !bytes.Equal(wav[wavHeaderSize:], pcm) {
		t.Fatalf("expected pcm to follow the header unchanged")
	}
}

func TestEncodeWAVRejectsCompandedSamples(t *testing.T) {
	_, err := EncodeWAV([]byte{0xFF}, EncodingInfo{SampleRate: 8000, Format: EncodingMulaw})
	if err == nil {
		t.Fatalf("expected mulaw samples to be rejected")
	}
}

func TestContainerSupport(t *testing.T) {
	if !ContainerWebM.IsSupported() || !ContainerWAV.IsSupported() {
		t.Fatalf("expected webm and wav to be supported")
	}
	if ContainerFormat("mp3").IsSupported() {
		t.Fatalf("expected mp3 to be unsupported")
	}
	if got := ContainerWAV.Filename(); got != "recording.wav" {
		t.Fatalf("expected recording.wav, got %q", got)
	}
}

func TestBytesPerSecond(t *testing.T) {
	if got, want := GetDefaultEncodingInfo().BytesPerSecond(), 32000; got != want {
		t.Fatalf("expected %d bytes per second, got %d", want, got)
	}
	if got := (EncodingInfo{}).BytesPerSecond(); got != 0 {
		t.Fatalf("expected zero for empty encoding info, got %d", got)
	}
}
