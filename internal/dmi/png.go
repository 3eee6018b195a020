package dmi

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"

	"github.com/pkg/errors"
)

// descriptionKeyword is the zTXt keyword the consuming engine looks for.
const descriptionKeyword = "Description"

const pngSignatureLen = 8

// buildZTXTChunk assembles a zTXt chunk holding the zlib-compressed
// description text.
func buildZTXTChunk(text string) ([]byte, error) {
	var data bytes.Buffer
	data.WriteString(descriptionKeyword)
	data.WriteByte(0) // keyword terminator
	data.WriteByte(0) // compression method: zlib
	zw := zlib.NewWriter(&data)
	if _, err := zw.Write([]byte(text)); err != nil {
		return nil, errors.Wrap(err, "compress description")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "compress description")
	}

	var chunk bytes.Buffer
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(data.Len()))
	chunk.Write(length[:])
	chunk.WriteString("zTXt")
	chunk.Write(data.Bytes())
	crc := crc32.NewIEEE()
	crc.Write([]byte("zTXt"))
	crc.Write(data.Bytes())
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	chunk.Write(sum[:])
	return chunk.Bytes(), nil
}

// encodePNGWithDescription encodes img as a PNG and splices the description
// chunk in immediately after IHDR, which is where the consuming engine
// expects to find it.
func encodePNGWithDescription(img *image.NRGBA, text string) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode sprite sheet png")
	}
	raw := buf.Bytes()
	if len(raw) < pngSignatureLen+12 {
		return nil, fmt.Errorf("png encoder produced a short stream (%d bytes)", len(raw))
	}
	// Signature, then the IHDR chunk: 4 length + 4 type + data + 4 crc.
	ihdrLen := binary.BigEndian.Uint32(raw[pngSignatureLen:])
	splice := pngSignatureLen + 12 + int(ihdrLen)
	if splice > len(raw) {
		return nil, fmt.Errorf("malformed png stream: IHDR length %d", ihdrLen)
	}

	chunk, err := buildZTXTChunk(text)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(raw)+len(chunk))
	out = append(out, raw[:splice]...)
	out = append(out, chunk...)
	out = append(out, raw[splice:]...)
	return out, nil
}
