package audio

import (
	"encoding/base64"
	"encoding/binary"
)

// Package audio converts telephony μ-law payloads into WAV clips.

const (
	wavHeaderSize = 44
	sampleRate    = 8000
	numChannels   = 1
	bitsPerSample = 16
)

// mulawToLinear maps every μ-law byte to its signed 16-bit PCM sample.
var mulawToLinear [256]int16

func init() {
	const bias = 132
	for i := 0; i < 256; i++ {
		b := ^byte(i)
		sign := b & 0x80
		exponent := (b >> 4) & 0x07
		mantissa := b & 0x0F
		sample := (int16(mantissa)<<3 + bias) << exponent
		sample -= bias
		if sign != 0 {
			sample = -sample
		}
		mulawToLinear[i] = sample
	}
}

// DecodeMuLaw expands μ-law bytes to little-endian 16-bit PCM. Output is
// always exactly twice the input length.
func DecodeMuLaw(mulaw []byte) []byte {
	pcm := make([]byte, len(mulaw)*2)
	for i, b := range mulaw {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(mulawToLinear[b]))
	}
	return pcm
}

// MuLawToWAV wraps the decoded PCM in a 44-byte WAV header (8 kHz, mono,
// 16-bit). The same input always produces the same output.
func MuLawToWAV(mulaw []byte) []byte {
	pcm := DecodeMuLaw(mulaw)

	out := make([]byte, wavHeaderSize+len(pcm))
	writeWAVHeader(out, len(pcm))
	copy(out[wavHeaderSize:], pcm)
	return out
}

func writeWAVHeader(buf []byte, dataLen int) {
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(buf[22:24], numChannels)
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
}

func Base64ToBytes(base64String string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64String)
}

func BytesToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
