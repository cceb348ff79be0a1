package renderer

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// WriteEXR writes the film's linear radiance as a single-part, uncompressed
// scanline OpenEXR file (spec §6: "OpenEXR half- or full-float RGB, linear
// light, origin top-left, one layer"). No ecosystem OpenEXR encoder exists
// anywhere in the example pack (see DESIGN.md), so this writes the minimal
// subset of the OpenEXR 2.0 container format the spec requires directly:
// half-float R/G/B channels, no compression, increasing scanline order.
func WriteEXR(filename string, f *Film) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create EXR file: %w", err)
	}
	defer file.Close()

	// The offset table that follows the header needs to know the header's
	// exact byte length up front, so the header is built into an in-memory
	// buffer first rather than streamed directly to file (a bufio.Writer
	// over the file can't be queried for the underlying file's write
	// position until it's flushed).
	var header bytes.Buffer
	if err := writeEXRHeader(&header, f.Width, f.Height); err != nil {
		return fmt.Errorf("failed to write EXR header: %w", err)
	}

	w := bufio.NewWriter(file)
	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("failed to write EXR header: %w", err)
	}

	// Each scanline is independently addressable via the offset table so a
	// reader can seek directly to any row; bytesPerRow covers the per-row
	// header (y coordinate + byte count) plus three half-float channels.
	const bytesPerChannel = 2
	rowPixelBytes := f.Width * bytesPerChannel * 3
	bytesPerRow := int64(4 + 4 + rowPixelBytes) // y (int32) + size (int32) + pixel data

	dataStart := int64(header.Len()) + int64(f.Height)*8
	for y := 0; y < f.Height; y++ {
		offset := dataStart + int64(y)*bytesPerRow
		if err := binary.Write(w, binary.LittleEndian, offset); err != nil {
			return fmt.Errorf("failed to write EXR offset table: %w", err)
		}
	}

	row := make([]byte, rowPixelBytes)
	for y := 0; y < f.Height; y++ {
		if err := binary.Write(w, binary.LittleEndian, int32(y)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int32(rowPixelBytes)); err != nil {
			return err
		}

		// Channels are stored in alphabetical order (B, G, R), each as a
		// contiguous run of half-floats across the row.
		putChannelRow(row, f.Pixels[y], func(mean [3]float64) float64 { return mean[2] }) // B
		if _, err := w.Write(row[:f.Width*bytesPerChannel]); err != nil {
			return err
		}
		putChannelRow(row, f.Pixels[y], func(mean [3]float64) float64 { return mean[1] }) // G
		if _, err := w.Write(row[:f.Width*bytesPerChannel]); err != nil {
			return err
		}
		putChannelRow(row, f.Pixels[y], func(mean [3]float64) float64 { return mean[0] }) // R
		if _, err := w.Write(row[:f.Width*bytesPerChannel]); err != nil {
			return err
		}
	}

	return w.Flush()
}

func putChannelRow(buf []byte, rowPixels []PixelStats, component func([3]float64) float64) {
	for x, ps := range rowPixels {
		mean := ps.Mean()
		v := component([3]float64{mean.X, mean.Y, mean.Z})
		h := floatToHalf(float32(v))
		binary.LittleEndian.PutUint16(buf[x*2:], h)
	}
}

func writeEXRHeader(w *bytes.Buffer, width, height int) error {
	// Magic number and version: single-part scanline, no extra flags.
	if err := binary.Write(w, binary.LittleEndian, uint32(0x762f3101)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(2)); err != nil {
		return err
	}

	writeString := func(s string) error {
		if _, err := w.Write([]byte(s)); err != nil {
			return err
		}
		return w.WriteByte(0)
	}
	writeAttr := func(name, typ string, value []byte) error {
		if err := writeString(name); err != nil {
			return err
		}
		if err := writeString(typ); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int32(len(value))); err != nil {
			return err
		}
		_, err := w.Write(value)
		return err
	}

	// channels: one chlist entry per channel (name, pixelType=HALF(1),
	// pLinear, reserved[3], xSampling, ySampling), alphabetical order,
	// terminated by an empty name.
	var channels []byte
	for _, ch := range []string{"B", "G", "R"} {
		channels = append(channels, []byte(ch)...)
		channels = append(channels, 0)
		channels = append(channels, le32(1)...) // pixel type: HALF
		channels = append(channels, 0, 0, 0, 0) // pLinear + reserved[3]
		channels = append(channels, le32(1)...) // xSampling
		channels = append(channels, le32(1)...) // ySampling
	}
	channels = append(channels, 0) // terminator
	if err := writeAttr("channels", "chlist", channels); err != nil {
		return err
	}

	if err := writeAttr("compression", "compression", []byte{0}); err != nil {
		return err
	}

	box2i := func(xMin, yMin, xMax, yMax int32) []byte {
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint32(buf[0:], uint32(xMin))
		binary.LittleEndian.PutUint32(buf[4:], uint32(yMin))
		binary.LittleEndian.PutUint32(buf[8:], uint32(xMax))
		binary.LittleEndian.PutUint32(buf[12:], uint32(yMax))
		return buf
	}
	window := box2i(0, 0, int32(width-1), int32(height-1))
	if err := writeAttr("dataWindow", "box2i", window); err != nil {
		return err
	}
	if err := writeAttr("displayWindow", "box2i", window); err != nil {
		return err
	}

	// lineOrder 0 == INCREASING_Y, matching the spec's "origin top-left".
	if err := writeAttr("lineOrder", "lineOrder", []byte{0}); err != nil {
		return err
	}
	if err := writeAttr("pixelAspectRatio", "float", f32le(1.0)); err != nil {
		return err
	}
	if err := writeAttr("screenWindowCenter", "v2f", append(f32le(0), f32le(0)...)); err != nil {
		return err
	}
	if err := writeAttr("screenWindowWidth", "float", f32le(1.0)); err != nil {
		return err
	}

	return w.WriteByte(0) // end of header
}

func le32(v int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return buf
}

func f32le(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

// floatToHalf converts an IEEE-754 float32 to an IEEE-754 binary16 (half
// float), the sample format OpenEXR's HALF pixel type uses. Values outside
// half's representable range saturate to +/-Inf rather than wrapping.
func floatToHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mantissa := bits & 0x7fffff

	switch {
	case (bits&0x7fffffff) == 0:
		return sign
	case exp <= 0:
		// Too small to represent as a normalized half; flush to zero.
		return sign
	case exp >= 0x1f:
		// Overflow or NaN/Inf input: saturate to infinity, preserving NaN
		// payload presence isn't required by the spec's "half- or
		// full-float" output contract.
		if (bits&0x7f800000) == 0x7f800000 && mantissa != 0 {
			return sign | 0x7e00 // NaN
		}
		return sign | 0x7c00 // Inf
	default:
		return sign | uint16(exp<<10) | uint16(mantissa>>13)
	}
}
