package encoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// chunkOverhead is length + tag + CRC.
const chunkOverhead = 12

var (
	ErrNotPNG    = errors.New("not a PNG stream")
	ErrBadCRC    = errors.New("chunk CRC mismatch")
	ErrTruncated = errors.New("truncated chunk")
)

// Chunk frames payload under a 4-byte tag: length, tag, payload, CRC-32
// of tag+payload.
func Chunk(tag string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(chunkOverhead + len(payload))
	writeChunk(&buf, tag, payload)
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, tag string, payload []byte) {
	if len(tag) != 4 {
		panic("encoder: chunk tag must be 4 bytes: " + tag)
	}
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(payload)))
	buf.Write(word[:])

	crc := crc32.NewIEEE()
	crc.Write([]byte(tag))
	crc.Write(payload)

	buf.WriteString(tag)
	buf.Write(payload)
	binary.BigEndian.PutUint32(word[:], crc.Sum32())
	buf.Write(word[:])
}

// ChunkInfo describes one chunk found by Inspect. Payload aliases the
// inspected buffer.
type ChunkInfo struct {
	Offset  int
	Tag     string
	Payload []byte
	CRC     uint32
}

// Inspect walks the chunk framing of data, checking the signature and
// every CRC. It stops after IEND. Pixel data is never inflated.
func Inspect(data []byte) ([]ChunkInfo, error) {
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature[:]) {
		return nil, ErrNotPNG
	}

	var chunks []ChunkInfo
	off := len(Signature)
	for {
		if len(data)-off < chunkOverhead {
			return chunks, fmt.Errorf("%w at offset %d", ErrTruncated, off)
		}
		n := binary.BigEndian.Uint32(data[off : off+4])
		if uint64(n) > uint64(len(data)-off-chunkOverhead) {
			return chunks, fmt.Errorf("%w at offset %d: length %d", ErrTruncated, off, n)
		}
		end := off + 8 + int(n)
		tag := string(data[off+4 : off+8])
		payload := data[off+8 : end]
		want := binary.BigEndian.Uint32(data[end : end+4])
		if got := crc32.ChecksumIEEE(data[off+4 : end]); got != want {
			return chunks, fmt.Errorf("%w: %s at offset %d: stored %08x, computed %08x",
				ErrBadCRC, tag, off, want, got)
		}

		chunks = append(chunks, ChunkInfo{Offset: off, Tag: tag, Payload: payload, CRC: want})
		off = end + 4
		if tag == TagIEND {
			return chunks, nil
		}
	}
}

// IDAT concatenates the payloads of every IDAT chunk, in order.
func IDAT(chunks []ChunkInfo) []byte {
	var out []byte
	for _, c := range chunks {
		if c.Tag == TagIDAT {
			out = append(out, c.Payload...)
		}
	}
	return out
}
