package dovi

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

const (
	// rpuPrefix is the first byte of every RPU payload.
	rpuPrefix = 0x19

	// rbspTrailer terminates the payload after the CRC.
	rbspTrailer = 0x80
)

// unspec62Header is the HEVC NAL unit header of type UNSPEC62 that carries
// the RPU.
var unspec62Header = []byte{0x7C, 0x01}

// unwrap strips transport framing from an RPU NAL unit, verifies the CRC32
// trailer when present and returns the escaped bytes of the RPU body that
// follow the 0x19 prefix.
func unwrap(nalu []byte) ([]byte, error) {
	data := nalu
	switch {
	case bytes.HasPrefix(data, []byte{0, 0, 0, 1}):
		data = data[4:]
	case bytes.HasPrefix(data, []byte{0, 0, 1}):
		data = data[3:]
	}
	data = bytes.TrimPrefix(data, unspec62Header)

	rbsp, ends := unescape(data)
	if len(rbsp) == 0 {
		return nil, ErrEmpty
	}
	if rbsp[0] != rpuPrefix {
		return nil, fmt.Errorf("%w: prefix 0x%02x", ErrMalformed, rbsp[0])
	}

	// Payloads framed with CRC32 and the stop byte are verified; bare
	// payloads are accepted as is. trailing_zero_8bits may follow the stop
	// byte.
	n := len(rbsp)
	for n > 0 && rbsp[n-1] == 0 {
		n--
	}
	bodyLen := len(rbsp) - 1
	if n >= 6 && rbsp[n-1] == rbspTrailer {
		bodyLen = n - 6
		want := binary.BigEndian.Uint32(rbsp[n-5 : n-1])
		if got := crc32MPEG2(rbsp[1 : n-5]); got != want {
			return nil, fmt.Errorf("%w: got 0x%08x, want 0x%08x", ErrChecksum, got, want)
		}
	}
	return data[ends[0]:ends[bodyLen]], nil
}

// unescape drops emulation prevention bytes from data. ends[i] is the
// offset in data just past the byte that produced rbsp[i].
func unescape(data []byte) (rbsp []byte, ends []int) {
	r := bits.NewEBSPReader(bytes.NewReader(data))
	for {
		b := r.Read(8)
		if r.AccError() != nil {
			return rbsp, ends
		}
		rbsp = append(rbsp, byte(b))
		ends = append(ends, r.NrBytesRead())
	}
}

// crc32MPEG2Table is the MSB-first table for polynomial 0x04C11DB7.
var crc32MPEG2Table = func() [256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i) << 24
		for range 8 {
			if c&0x80000000 != 0 {
				c = c<<1 ^ 0x04C11DB7
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}()

// crc32MPEG2 computes CRC-32/MPEG-2 (init 0xFFFFFFFF, no reflection, no
// final xor).
func crc32MPEG2(data []byte) uint32 {
	crc := uint32(0xFFFFFFFF)
	for _, b := range data {
		crc = crc<<8 ^ crc32MPEG2Table[byte(crc>>24)^b]
	}
	return crc
}
