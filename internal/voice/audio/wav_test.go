package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMuLaw_OutputLength(t *testing.T) {
	input := make([]byte, 160)
	pcm := DecodeMuLaw(input)
	assert.Equal(t, 320, len(pcm))
}

func TestDecodeMuLaw_SilenceDecodesToZero(t *testing.T) {
	// 0xFF is μ-law digital silence.
	pcm := DecodeMuLaw([]byte{0xFF, 0xFF})
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, pcm)
}

func TestDecodeMuLaw_SignSymmetry(t *testing.T) {
	// A byte and its sign-flipped counterpart decode to opposite samples.
	for b := 0; b < 128; b++ {
		positive := int16(binary.LittleEndian.Uint16(DecodeMuLaw([]byte{byte(b)})))
		negative := int16(binary.LittleEndian.Uint16(DecodeMuLaw([]byte{byte(b) | 0x80})))
		assert.Equal(t, positive, -negative, "byte %#x", b)
	}
}

func TestMuLawToWAV_HeaderFields(t *testing.T) {
	input := make([]byte, 100)
	wav := MuLawToWAV(input)

	assert.Equal(t, 244, len(wav))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint32(236), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, uint32(200), binary.LittleEndian.Uint32(wav[40:44]))
}

func TestMuLawToWAV_Deterministic(t *testing.T) {
	input := []byte{0x00, 0x3A, 0x7F, 0x80, 0xC5, 0xFF}
	first := MuLawToWAV(input)
	second := MuLawToWAV(input)
	assert.Equal(t, first, second)
}

func TestBase64RoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0xFF}
	decoded, err := Base64ToBytes(BytesToBase64(data))
	assert.NoError(t, err)
	assert.Equal(t, data, decoded)
}
