package rom

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
)

// Slot records the address range a glyph occupies in an image.
type Slot struct {
	Key        bitfont.VariantKey
	Addr, Len  int
	SectionIdx int
}

// Image is a font ROM. The last TrailerSize bytes hold the checksum.
type Image struct {
	Data  []byte
	Slots []Slot
}

// NewImage returns a zero-filled image of depth bytes.
func NewImage(depth int) *Image {
	return &Image{Data: make([]byte, depth)}
}

// Checksum sums every byte except the trailer, modulo 65536.
func (img *Image) Checksum() uint16 {
	return Checksum(img.Data)
}

// Checksum computes the trailer value for a raw image.
func Checksum(data []byte) uint16 {
	var sum uint16
	if len(data) < TrailerSize {
		return 0
	}
	for _, b := range data[:len(data)-TrailerSize] {
		sum += uint16(b)
	}
	return sum
}

// Seal writes the checksum big-endian into the trailer. Sealing twice is
// harmless since the trailer is not part of the sum.
func (img *Image) Seal() uint16 {
	sum := img.Checksum()
	n := len(img.Data)
	if n < TrailerSize {
		return sum
	}
	img.Data[n-2] = byte(sum >> 8)
	img.Data[n-1] = byte(sum)
	return sum
}

// Trailer returns the stored checksum.
func (img *Image) Trailer() uint16 {
	return Trailer(img.Data)
}

// Trailer reads the big-endian checksum stored in the last two bytes.
func Trailer(data []byte) uint16 {
	n := len(data)
	if n < TrailerSize {
		return 0
	}
	return uint16(data[n-2])<<8 | uint16(data[n-1])
}

// Verify reports whether the stored trailer matches the data.
func (img *Image) Verify() (stored, computed uint16, ok bool) {
	stored, computed = img.Trailer(), img.Checksum()
	return stored, computed, stored == computed
}

// WriteBinary writes the image bytes verbatim.
func WriteBinary(w io.Writer, img *Image) error {
	_, err := w.Write(img.Data)
	return errors.Wrap(err, "rom: writing binary image")
}

// ReadBinary reads a raw image. Slots are unknown and left empty.
func ReadBinary(r io.Reader) (*Image, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "rom: reading binary image")
	}
	if len(data) < TrailerSize {
		return nil, errors.Errorf("rom: binary image of %d bytes has no trailer", len(data))
	}
	return &Image{Data: data}, nil
}
