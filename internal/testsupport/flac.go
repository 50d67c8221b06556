package testsupport

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

// FLACSpec describes a synthetic FLAC file. Zero values get sensible
// defaults: 44.1kHz, 16-bit stereo, one minute of audio, an MD5 signature
// derived from the file name.
type FLACSpec struct {
	SampleRate    int
	BitsPerSample int
	Channels      int
	TotalSamples  uint64
	// MD5 is the lowercase hex STREAMINFO signature.
	MD5 string
	// Tags become a vorbis comment block.
	Tags map[string]string
	// Picture embeds the bytes as a front-cover picture block.
	Picture []byte
}

// WriteFLAC writes a metadata-only FLAC file at path. The result has a valid
// stream marker, STREAMINFO block, and optional vorbis comment and picture
// blocks, which is all the tagging pipeline reads.
func WriteFLAC(t testing.TB, path string, spec FLACSpec) string {
	t.Helper()

	if spec.SampleRate == 0 {
		spec.SampleRate = 44100
	}
	if spec.BitsPerSample == 0 {
		spec.BitsPerSample = 16
	}
	if spec.Channels == 0 {
		spec.Channels = 2
	}
	if spec.TotalSamples == 0 {
		spec.TotalSamples = uint64(spec.SampleRate) * 60
	}
	if spec.MD5 == "" {
		sum := md5.Sum([]byte(filepath.Base(path)))
		spec.MD5 = hex.EncodeToString(sum[:])
	}

	var blocks [][]byte
	blocks = append(blocks, metadataBlock(0, streamInfoBody(spec)))
	if len(spec.Tags) > 0 {
		blocks = append(blocks, metadataBlock(4, vorbisCommentBody(spec.Tags)))
	}
	if len(spec.Picture) > 0 {
		blocks = append(blocks, metadataBlock(6, pictureBody(spec.Picture)))
	}
	// Mark the final block.
	blocks[len(blocks)-1][0] |= 0x80

	var buf bytes.Buffer
	buf.WriteString("fLaC")
	for _, block := range blocks {
		buf.Write(block)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return spec.MD5
}

func metadataBlock(blockType byte, body []byte) []byte {
	block := make([]byte, 4+len(body))
	block[0] = blockType
	block[1] = byte(len(body) >> 16)
	block[2] = byte(len(body) >> 8)
	block[3] = byte(len(body))
	copy(block[4:], body)
	return block
}

func streamInfoBody(spec FLACSpec) []byte {
	body := make([]byte, 34)
	body[10] = byte(spec.SampleRate >> 12)
	body[11] = byte(spec.SampleRate >> 4)
	body[12] = byte(spec.SampleRate&0xF)<<4 |
		byte(spec.Channels-1)<<1 |
		byte((spec.BitsPerSample-1)>>4)
	body[13] = byte((spec.BitsPerSample-1)&0xF)<<4 | byte(spec.TotalSamples>>32)&0x0F
	binary.BigEndian.PutUint32(body[14:18], uint32(spec.TotalSamples))
	md5bytes, err := hex.DecodeString(spec.MD5)
	if err != nil || len(md5bytes) != 16 {
		panic("testsupport: FLACSpec.MD5 must be 32 hex characters")
	}
	copy(body[18:], md5bytes)
	return body
}

func vorbisCommentBody(tags map[string]string) []byte {
	var buf bytes.Buffer
	vendor := "showtag testsupport"
	writeLE32 := func(v uint32) {
		var scratch [4]byte
		binary.LittleEndian.PutUint32(scratch[:], v)
		buf.Write(scratch[:])
	}
	writeLE32(uint32(len(vendor)))
	buf.WriteString(vendor)
	writeLE32(uint32(len(tags)))
	for key, value := range tags {
		entry := key + "=" + value
		writeLE32(uint32(len(entry)))
		buf.WriteString(entry)
	}
	return buf.Bytes()
}

func pictureBody(image []byte) []byte {
	var buf bytes.Buffer
	writeBE32 := func(v uint32) {
		var scratch [4]byte
		binary.BigEndian.PutUint32(scratch[:], v)
		buf.Write(scratch[:])
	}
	writeBE32(3) // front cover
	mime := "image/jpeg"
	writeBE32(uint32(len(mime)))
	buf.WriteString(mime)
	writeBE32(0) // description
	writeBE32(0) // width
	writeBE32(0) // height
	writeBE32(0) // depth
	writeBE32(0) // colors
	writeBE32(uint32(len(image)))
	buf.Write(image)
	return buf.Bytes()
}
