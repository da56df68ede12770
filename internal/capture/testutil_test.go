package capture

import (
	"encoding/binary"
	"math"
	"os"
	"testing"
)

// writeTestWAV creates a mono 16-bit WAV file containing a sine tone.
// Returns the path to the temporary file; cleanup is registered on t.
func writeTestWAV(t *testing.T, sampleRate int, toneFreq float64, durationSecs float64) string {
	t.Helper()

	totalSamples := int(durationSecs * float64(sampleRate))
	samples := make([]int16, totalSamples)
	for i := range samples {
		v := 0.5 * math.Sin(2*math.Pi*toneFreq*float64(i)/float64(sampleRate))
		samples[i] = int16(v * float64(math.MaxInt16))
	}

	tmpFile, err := os.CreateTemp("", "soundcheck-test-*.wav")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if err := writeWAV(tmpFile, samples, sampleRate); err != nil {
		tmpFile.Close()
		t.Fatalf("failed to write WAV file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}
	return tmpFile.Name()
}

// writeWAV writes a mono 16-bit WAV file
func writeWAV(f *os.File, samples []int16, sampleRate int) error {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)

	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(samples) * 2
	fileSize := 36 + dataSize

	if _, err := f.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(fileSize)); err != nil {
		return err
	}
	if _, err := f.Write([]byte("WAVE")); err != nil {
		return err
	}

	if _, err := f.Write([]byte("fmt ")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(16)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(1)); err != nil { // PCM
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(numChannels)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(sampleRate)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(byteRate)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(blockAlign)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(bitsPerSample)); err != nil {
		return err
	}

	if _, err := f.Write([]byte("data")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(dataSize)); err != nil {
		return err
	}
	for _, sample := range samples {
		if err := binary.Write(f, binary.LittleEndian, sample); err != nil {
			return err
		}
	}
	return nil
}
