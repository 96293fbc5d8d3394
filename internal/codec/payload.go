// Package codec derives the scannable identifier payload for an attendee
// and renders it as a QR image.  The payload is a pure function of the
// PRN alone: the same PRN always yields the same payload, regardless of
// event, attendee name or when the encoding happens.  Encode and Decode
// round-trip exactly for any PRN the importer accepts.
package codec

import (
	"errors"
	"strings"
	"unicode"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrEmptyPRN is returned when encoding or decoding a blank identifier.
var ErrEmptyPRN = errors.New("codec: empty identifier")

// ErrUnencodable is returned when a PRN contains characters that cannot
// survive a scan round-trip (control characters, non-printables).
var ErrUnencodable = errors.New("codec: identifier contains non-printable characters")

// Encode derives the scannable payload for a PRN.  The payload is the PRN
// itself, verbatim: QR scanners hand back the encoded text unchanged, so
// an identity payload is the only encoding that round-trips for arbitrary
// roster identifiers (mixed case, leading zeros, punctuation).  Encode
// still validates: the PRN must be non-empty after trimming and must
// consist of printable characters only.
func Encode(prn string) (string, error) {
	prn = strings.TrimSpace(prn)
	if prn == "" {
		return "", ErrEmptyPRN
	}
	for _, r := range prn {
		if !unicode.IsPrint(r) {
			return "", ErrUnencodable
		}
	}
	return prn, nil
}

// Decode recovers the PRN from a scanned or typed payload.  Scanner input
// often carries stray whitespace or a trailing newline from keyboard-wedge
// readers, so the payload is trimmed before being returned.
func Decode(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrEmptyPRN
	}
	return payload, nil
}

// RenderPNG renders a payload as a QR code PNG of the given pixel size.
// Medium error correction matches what phone cameras and handheld
// scanners reliably read under venue lighting.
func RenderPNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPRN
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}
