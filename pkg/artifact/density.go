package artifact

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	inchesPerMetre = 39.3700787
	cmPerInch      = 2.54
)

// Density returns the pixels-per-inch declared in the image header, or zero
// when the format carries none or the header does not declare it. Only the
// horizontal density is reported.
func Density(format string, data []byte) float64 {
	var d float64
	switch format {
	case FormatPNG:
		d = pngDensity(data)
	case FormatJPEG:
		d = jfifDensity(data)
	}
	return math.Round(d)
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngDensity walks the chunk list up to the first IDAT looking for pHYs.
func pngDensity(data []byte) float64 {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0
	}
	p := data[len(pngSignature):]
	for len(p) >= 8 {
		length := binary.BigEndian.Uint32(p[:4])
		typ := string(p[4:8])
		if uint64(len(p)) < 12+uint64(length) {
			return 0
		}
		body := p[8 : 8+length]
		switch typ {
		case "pHYs":
			if length < 9 || body[8] != 1 { // unit 1 is the metre; 0 is aspect ratio only
				return 0
			}
			return float64(binary.BigEndian.Uint32(body[:4])) / inchesPerMetre
		case "IDAT", "IEND":
			return 0
		}
		p = p[12+length:]
	}
	return 0
}

// jfifDensity reads the APP0 JFIF segment. Units 1 are dots per inch, units 2
// dots per centimetre; units 0 only give an aspect ratio.
func jfifDensity(data []byte) float64 {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0
	}
	p := data[2:]
	for len(p) >= 4 {
		if p[0] != 0xFF {
			return 0
		}
		marker := p[1]
		if marker == 0xDA || marker == 0xD9 { // start of scan, end of image
			return 0
		}
		length := int(binary.BigEndian.Uint16(p[2:4]))
		if length < 2 || len(p) < 2+length {
			return 0
		}
		seg := p[4 : 2+length]
		if marker == 0xE0 && len(seg) >= 12 && bytes.Equal(seg[:5], []byte("JFIF\x00")) {
			units := seg[7]
			x := float64(binary.BigEndian.Uint16(seg[8:10]))
			switch units {
			case 1:
				return x
			case 2:
				return x * cmPerInch
			}
			return 0
		}
		p = p[2+length:]
	}
	return 0
}
