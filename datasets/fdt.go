package datasets

import (
	"encoding/binary"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const float32Size = 4

// FDTDecoder reads EEGLAB exports that keep their samples in a separate .fdt
// file next to the .set header. The .fdt holds little-endian float32 values
// with the channel index varying fastest.
//
// The channel count lives in the MATLAB encoded .set file, which this decoder
// does not parse, so it must be configured.
type FDTDecoder struct {
	Channels int
}

// DataPath returns the .fdt file that belongs to the .set file at setPath.
func (d FDTDecoder) DataPath(setPath string) string {
	return strings.TrimSuffix(setPath, ".set") + ".fdt"
}

// Decode implements Decoder.
func (d FDTDecoder) Decode(setPath string) (*mat.Dense, error) {
	if d.Channels <= 0 {
		return nil, errors.Errorf("fdt decoder: channel count must be positive, got %d", d.Channels)
	}
	// The header must exist even though only the sample file is read.
	if _, err := os.Stat(setPath); err != nil {
		return nil, errors.Wrapf(err, "fdt decoder: stat %s", setPath)
	}

	dataPath := d.DataPath(setPath)
	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, errors.Wrapf(err, "fdt decoder: read %s", dataPath)
	}
	if len(raw) == 0 {
		return nil, errors.Errorf("fdt decoder: %s is empty", dataPath)
	}
	frame := float32Size * d.Channels
	if len(raw)%frame != 0 {
		return nil, errors.Errorf("fdt decoder: %s has %d bytes, not a multiple of %d channels x %d bytes",
			dataPath, len(raw), d.Channels, float32Size)
	}

	samples := len(raw) / frame
	out := mat.NewDense(d.Channels, samples, nil)
	for s := range samples {
		for c := range d.Channels {
			off := (s*d.Channels + c) * float32Size
			v := math.Float32frombits(binary.LittleEndian.Uint32(raw[off : off+float32Size]))
			out.Set(c, s, float64(v))
		}
	}
	return out, nil
}
