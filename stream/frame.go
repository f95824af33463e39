package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
)

const frameVersion = 1

// headerSize covers everything before the visualization id.
const headerSize = 2 + 2 + 2 + 1 + 8 + 8 + 16 + 2

// ErrShortFrame is returned when binary frame data is truncated.
var ErrShortFrame = errors.New("frame data too short")

// ErrFrameTooLarge is returned when an image side does not fit the header.
var ErrFrameTooLarge = errors.New("frame image too large")

// Frame is a rendered picture of a visualization at one instant.
type Frame struct {
	Info  FrameInfo
	Image *image.RGBA
}

// NewFrame pairs a snapshot with the metadata of the draw that produced it.
func NewFrame(info FrameInfo, img *image.RGBA) *Frame {
	return &Frame{Info: info, Image: img}
}

// MarshalBinary converts a Frame into a little-endian header followed by
// the PNG-encoded image.
func (f *Frame) MarshalBinary() ([]byte, error) {
	if f.Image == nil {
		return nil, errors.New("frame has no image")
	}
	b := f.Image.Bounds()
	if b.Dx() > math.MaxUint16 || b.Dy() > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %dx%d", ErrFrameTooLarge, b.Dx(), b.Dy())
	}
	id := []byte(f.Info.SpecID)
	if len(id) > math.MaxUint16 {
		id = id[:math.MaxUint16]
	}

	data := make([]byte, headerSize, headerSize+len(id)+b.Dx()*b.Dy())
	binary.LittleEndian.PutUint16(data[0:], frameVersion)
	binary.LittleEndian.PutUint16(data[2:], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(data[4:], uint16(b.Dy()))
	data[6] = byte(f.Info.State)
	binary.LittleEndian.PutUint64(data[7:], math.Float64bits(f.Info.ElapsedMs))
	binary.LittleEndian.PutUint64(data[15:], math.Float64bits(f.Info.DurationMs))
	copy(data[23:39], f.Info.Session[:])
	binary.LittleEndian.PutUint16(data[39:], uint16(len(id)))
	data = append(data, id...)

	buf := bytes.NewBuffer(data)
	if err := png.Encode(buf, f.Image); err != nil {
		return nil, fmt.Errorf("frame encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary reads data produced by MarshalBinary.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return ErrShortFrame
	}
	if v := binary.LittleEndian.Uint16(data[0:]); v != frameVersion {
		return fmt.Errorf("unsupported frame version %d", v)
	}
	var info FrameInfo
	info.State = State(data[6])
	info.ElapsedMs = math.Float64frombits(binary.LittleEndian.Uint64(data[7:]))
	info.DurationMs = math.Float64frombits(binary.LittleEndian.Uint64(data[15:]))
	copy(info.Session[:], data[23:39])
	n := int(binary.LittleEndian.Uint16(data[39:]))
	if len(data) < headerSize+n {
		return ErrShortFrame
	}
	info.SpecID = string(data[headerSize : headerSize+n])

	img, err := png.Decode(bytes.NewReader(data[headerSize+n:]))
	if err != nil {
		return fmt.Errorf("frame decode failed: %w", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	f.Info = info
	f.Image = rgba
	return nil
}
