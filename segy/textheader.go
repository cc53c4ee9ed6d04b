package segy

import "golang.org/x/text/encoding/charmap"

// The text header is stored in EBCDIC (code page 037) on tape-era files.
// Plenty of modern tools write plain ASCII instead, so decoding sniffs the
// encoding first; encoding always produces EBCDIC, which is what the format
// prescribes.
var ebcdic = charmap.CodePage037

const ebcdicSpace = 0x40

// decodeTextHeader transcodes the 3200-byte card-image header to a string.
func decodeTextHeader(raw []byte) (string, error) {
	if looksASCII(raw) {
		return string(raw), nil
	}
	s, err := ebcdic.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// encodeTextHeader transcodes text back to EBCDIC, truncated or padded with
// EBCDIC spaces to exactly 3200 bytes.
func encodeTextHeader(text string) ([]byte, error) {
	if len(text) > TextHeaderLength {
		text = text[:TextHeaderLength]
	}
	enc, err := ebcdic.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, err
	}
	if len(enc) > TextHeaderLength {
		enc = enc[:TextHeaderLength]
	}
	for len(enc) < TextHeaderLength {
		enc = append(enc, ebcdicSpace)
	}
	return enc, nil
}

// looksASCII reports whether the header bytes can only be ASCII. EBCDIC
// card images place every letter and digit at 0x81 and above, so any byte
// with the high bit set marks the header as EBCDIC.
func looksASCII(raw []byte) bool {
	for _, b := range raw {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
