package tokenizer

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// Bytes that are not part of a valid UTF-8 sequence travel through the
// tokenizer as characters in rawFirst..rawLast, one per byte, and are
// written back as the original byte. Valid input characters in that range
// are carried the same way, byte by byte, so every input byte survives.
const (
	rawBase  = 0x10FF00
	rawFirst = rawBase + 0x80
	rawLast  = rawBase + 0xFF
)

// chunkRunes is the number of characters handed to the stream per read.
// The stream's character buffer is a multiple of it.
const chunkRunes = 1024

func isRaw(r rune) bool {
	return r >= rawFirst && r <= rawLast
}

// Runes decodes s into characters. Invalid bytes become raw characters.
func Runes(s string) []rune {
	out := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || isRaw(r) {
			for j := 0; j < size; j++ {
				out = append(out, rawBase+rune(s[i+j]))
			}
		} else {
			out = append(out, r)
		}
		i += size
	}
	return out
}

// String is the inverse of Runes.
func String(rs []rune) string {
	var b strings.Builder
	b.Grow(len(rs))
	for _, r := range rs {
		if isRaw(r) {
			b.WriteByte(byte(r - rawBase))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// runeReader re-encodes a byte source so that every read holds whole UTF-8
// sequences only, chunkRunes characters at a time until the source ends.
// Invalid bytes are re-encoded as raw characters.
type runeReader struct {
	src *bufio.Reader
	err error
}

func newRuneReader(r io.Reader) *runeReader {
	return &runeReader{src: bufio.NewReader(r)}
}

func (rr *runeReader) Read(p []byte) (int, error) {
	if rr.err != nil {
		return 0, rr.err
	}

	n, count := 0, 0
	for count < chunkRunes {
		r, size, err := rr.src.ReadRune()
		if err != nil {
			rr.err = err
			break
		}

		if (r == utf8.RuneError && size == 1) || isRaw(r) {
			// Raw bytes are taken one at a time, so a chunk can end
			// inside the sequence.
			_ = rr.src.UnreadRune()
			for i := 0; i < size && count < chunkRunes && n+utf8.UTFMax <= len(p); i++ {
				b, _ := rr.src.ReadByte()
				n += utf8.EncodeRune(p[n:], rawBase+rune(b))
				count++
			}
			if count < chunkRunes && n+utf8.UTFMax <= len(p) {
				continue
			}
			break
		}

		if n+utf8.RuneLen(r) > len(p) {
			_ = rr.src.UnreadRune()
			break
		}
		n += utf8.EncodeRune(p[n:], r)
		count++
	}

	if n == 0 && rr.err != nil {
		return 0, rr.err
	}
	return n, nil
}
