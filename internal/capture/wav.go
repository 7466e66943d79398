package capture

import (
	"bytes"
	"encoding/binary"
)

// wavHeader is the canonical 44-byte RIFF header for mono PCM16.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// EncodeWAV wraps PCM16 mono samples in a WAV container.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	numChannels := uint16(1)
	bitsPerSample := uint16(16)
	dataSize := uint32(len(samples) * 2)

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
		BitsPerSample: bitsPerSample,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*2))
	_ = binary.Write(buf, binary.LittleEndian, header)
	_ = binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

// Normalize scales the samples in place so the loudest peak sits at 90% of
// full scale. Quiet recordings transcribe noticeably better after this.
func Normalize(samples []int16) {
	var peak int32
	for _, s := range samples {
		v := int32(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}

	target := int32(32767) * 9 / 10
	for i, s := range samples {
		scaled := int64(s) * int64(target) / int64(peak)
		if scaled > 32767 {
			scaled = 32767
		}
		if scaled < -32768 {
			scaled = -32768
		}
		samples[i] = int16(scaled)
	}
}

// bytesToSamples reinterprets little-endian PCM16 bytes as samples. A
// trailing odd byte is dropped.
func bytesToSamples(raw []byte) []int16 {
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples
}
