// Package flacfile reads the STREAMINFO block of FLAC files.
//
// The STREAMINFO MD5 signature of the decoded audio identifies a recording
// independently of its tags, making it the fingerprint used for catalog
// matching. The block also carries the stream properties (bit depth, sample
// rate) the tagger needs that general-purpose tag readers do not expose.
package flacfile

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	blockTypeStreamInfo = 0
	streamInfoLength    = 34
)

// ErrNotFLAC reports a file without the FLAC stream marker.
var ErrNotFLAC = errors.New("not a FLAC file")

// StreamInfo holds the decoded STREAMINFO fields the tagger consumes.
type StreamInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	TotalSamples  uint64
	// MD5Signature is the lowercase hex MD5 of the unencoded audio data.
	MD5Signature string
}

// LengthSeconds returns the stream duration rounded down to whole seconds.
func (s StreamInfo) LengthSeconds() int {
	if s.SampleRate <= 0 {
		return 0
	}
	return int(s.TotalSamples / uint64(s.SampleRate))
}

// Length renders the stream duration as m:ss.
func (s StreamInfo) Length() string {
	seconds := s.LengthSeconds()
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ReadStreamInfo opens path and decodes its STREAMINFO block.
func ReadStreamInfo(path string) (StreamInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("open flac: %w", err)
	}
	defer file.Close()
	info, err := Decode(file)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// Decode reads a FLAC stream header from r and returns its STREAMINFO block.
// STREAMINFO is mandatory and first per the FLAC format, but Decode tolerates
// streams that place it later.
func Decode(r io.Reader) (StreamInfo, error) {
	var marker [4]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil {
		return StreamInfo{}, fmt.Errorf("read stream marker: %w", err)
	}
	if string(marker[:]) != "fLaC" {
		return StreamInfo{}, ErrNotFLAC
	}

	for {
		var header [4]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return StreamInfo{}, fmt.Errorf("read block header: %w", err)
		}
		last := header[0]&0x80 != 0
		blockType := int(header[0] & 0x7F)
		length := int(header[1])<<16 | int(header[2])<<8 | int(header[3])

		if blockType == blockTypeStreamInfo {
			if length != streamInfoLength {
				return StreamInfo{}, fmt.Errorf("streaminfo block has length %d, want %d", length, streamInfoLength)
			}
			var body [streamInfoLength]byte
			if _, err := io.ReadFull(r, body[:]); err != nil {
				return StreamInfo{}, fmt.Errorf("read streaminfo: %w", err)
			}
			return decodeStreamInfo(body), nil
		}

		if last {
			return StreamInfo{}, errors.New("stream has no streaminfo block")
		}
		if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
			return StreamInfo{}, fmt.Errorf("skip metadata block: %w", err)
		}
	}
}

func decodeStreamInfo(b [streamInfoLength]byte) StreamInfo {
	// Layout after the min/max block and frame sizes (bytes 0-9):
	//   20 bits sample rate, 3 bits channels-1, 5 bits bits-per-sample-1,
	//   36 bits total samples, 128 bits MD5.
	sampleRate := int(b[10])<<12 | int(b[11])<<4 | int(b[12])>>4
	channels := (int(b[12]>>1) & 0x7) + 1
	bits := (int(b[12]&0x1)<<4 | int(b[13])>>4) + 1
	totalSamples := uint64(b[13]&0x0F)<<32 | uint64(binary.BigEndian.Uint32(b[14:18]))

	return StreamInfo{
		SampleRate:    sampleRate,
		Channels:      channels,
		BitsPerSample: bits,
		TotalSamples:  totalSamples,
		MD5Signature:  hex.EncodeToString(b[18:34]),
	}
}
