package micropng_test

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/micropng"
	"github.com/AnyUserName/micropng/internal/raster"
	testdataloader "github.com/peteole/testdata-loader"
)

func loadGrid(t *testing.T, name string) micropng.Image {
	t.Helper()
	img, err := raster.ReadJSON(bytes.NewReader(testdataloader.GetTestFile("testdata/" + name)))
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return img
}

type chunk struct {
	tag     string
	payload []byte
	crc     uint32
}

// splitChunks walks the file independently of the encoder package.
func splitChunks(t *testing.T, data []byte) []chunk {
	t.Helper()
	var out []chunk
	for off := 8; off < len(data); {
		n := int(binary.BigEndian.Uint32(data[off:]))
		c := chunk{
			tag:     string(data[off+4 : off+8]),
			payload: data[off+8 : off+8+n],
			crc:     binary.BigEndian.Uint32(data[off+8+n:]),
		}
		out = append(out, c)
		off += 12 + n
	}
	return out
}

func filteredOf(img micropng.Image) []byte {
	var out []byte
	for _, row := range img {
		out = append(out, 0)
		for _, px := range row {
			out = append(out, px...)
		}
	}
	return out
}

func TestEncodePNG_TwoPixelScenario(t *testing.T) {
	img := loadGrid(t, "two_pixels.json")

	data, err := micropng.EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	if !bytes.Equal(data[:8], []byte{137, 80, 78, 71, 13, 10, 26, 10}) {
		t.Fatalf("signature: got %v", data[:8])
	}

	chunks := splitChunks(t, data)
	if len(chunks) != 3 {
		t.Fatalf("chunks: got %d, want 3", len(chunks))
	}

	ihdr := chunks[0]
	if ihdr.tag != "IHDR" || len(ihdr.payload) != 13 {
		t.Fatalf("IHDR: tag %q, %d bytes", ihdr.tag, len(ihdr.payload))
	}
	want := []byte{0, 0, 0, 2, 0, 0, 0, 1, 8, 2, 0, 0, 0}
	if !bytes.Equal(ihdr.payload, want) {
		t.Errorf("IHDR payload: got %v, want %v", ihdr.payload, want)
	}

	zr, err := zlib.NewReader(bytes.NewReader(chunks[1].payload))
	if err != nil {
		t.Fatalf("zlib: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(raw, []byte{0, 255, 0, 0, 0, 255, 0}) {
		t.Errorf("IDAT inflates to %v", raw)
	}

	if chunks[2].tag != "IEND" || len(chunks[2].payload) != 0 {
		t.Errorf("IEND: tag %q, %d bytes", chunks[2].tag, len(chunks[2].payload))
	}
}

func TestEncodePNG_Properties(t *testing.T) {
	fixtures := map[string]micropng.Image{
		"two_pixels": loadGrid(t, "two_pixels.json"),
		"checker":    loadGrid(t, "checker_rgba.json"),
		"gradient":   raster.Gradient(250, 40),
	}

	for name, img := range fixtures {
		t.Run(name, func(t *testing.T) {
			data, err := micropng.EncodePNG(img)
			if err != nil {
				t.Fatalf("EncodePNG: %v", err)
			}

			again, err := micropng.EncodePNG(img)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, again) {
				t.Error("non-deterministic output")
			}

			chunks := splitChunks(t, data)
			for _, c := range chunks {
				sum := crc32.ChecksumIEEE(append([]byte(c.tag), c.payload...))
				if sum != c.crc {
					t.Errorf("%s: crc %08x, computed %08x", c.tag, c.crc, sum)
				}
			}

			p := chunks[0].payload
			if w := binary.BigEndian.Uint32(p[0:4]); int(w) != len(img[0]) {
				t.Errorf("width: got %d, want %d", w, len(img[0]))
			}
			if h := binary.BigEndian.Uint32(p[4:8]); int(h) != len(img) {
				t.Errorf("height: got %d, want %d", h, len(img))
			}
			wantType := byte(2)
			if len(img[0][0]) == 4 {
				wantType = 6
			}
			if p[8] != 8 || p[9] != wantType {
				t.Errorf("bit depth/color type: got %d/%d, want 8/%d", p[8], p[9], wantType)
			}

			zr, err := zlib.NewReader(bytes.NewReader(chunks[1].payload))
			if err != nil {
				t.Fatal(err)
			}
			raw, err := io.ReadAll(zr)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(raw, filteredOf(img)) {
				t.Error("IDAT does not inflate to the filtered stream")
			}

			decoded, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("png.Decode: %v", err)
			}
			if decoded.Bounds() != image.Rect(0, 0, len(img[0]), len(img)) {
				t.Errorf("decoded bounds: %v", decoded.Bounds())
			}
		})
	}
}

func TestEncodePNG_ValidationErrors(t *testing.T) {
	cases := map[string]micropng.Image{
		"ragged":        loadGrid(t, "ragged.json"),
		"two channels":  loadGrid(t, "two_channels.json"),
		"five channels": loadGrid(t, "five_channels.json"),
		"empty":         {},
	}
	for name, img := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := micropng.EncodePNG(img)
			var verr *micropng.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v (%T), want *ValidationError", err, err)
			}
		})
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.png")
	img := raster.Gradient(64, 32)

	if err := micropng.SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want, err := micropng.EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, want) {
		t.Error("file contents differ from EncodePNG output")
	}
}

func TestSavePNG_InvalidImageWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.png")

	err := micropng.SavePNG(path, loadGrid(t, "ragged.json"))
	var verr *micropng.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want *ValidationError", err)
	}
	if !errors.Is(err, raster.ErrInvalidImage) {
		t.Errorf("error does not wrap raster.ErrInvalidImage: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not empty after failed save: %d entries", len(entries))
	}
}

func TestSavePNG_IOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.png")
	err := micropng.SavePNG(path, loadGrid(t, "two_pixels.json"))

	var ioErr *micropng.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("got %v (%T), want *IOError", err, err)
	}
	if ioErr.Path != path {
		t.Errorf("path: got %q, want %q", ioErr.Path, path)
	}
}

type brokenCompressor struct{}

func (brokenCompressor) Name() string { return "broken" }
func (brokenCompressor) Compress([]byte) ([]byte, error) {
	return nil, errors.New("no memory")
}

func TestEncoder_CodecError(t *testing.T) {
	enc := micropng.Encoder{Compressor: brokenCompressor{}}
	_, err := enc.Encode(loadGrid(t, "two_pixels.json"))

	var cerr *micropng.CodecError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v (%T), want *CodecError", err, err)
	}
}

func TestEncoder_CompressionLevels(t *testing.T) {
	img := raster.Gradient(400, 100)
	sizes := map[micropng.CompressionLevel]int{}
	for _, level := range []micropng.CompressionLevel{
		micropng.NoCompression, micropng.BestSpeed,
		micropng.DefaultCompression, micropng.BestCompression,
	} {
		enc := micropng.Encoder{CompressionLevel: level}
		data, err := enc.Encode(img)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Errorf("level %d: png.Decode: %v", level, err)
		}
		sizes[level] = len(data)
	}

	if sizes[micropng.NoCompression] <= sizes[micropng.BestCompression] {
		t.Errorf("stored (%d bytes) not larger than best (%d bytes)",
			sizes[micropng.NoCompression], sizes[micropng.BestCompression])
	}
}

func TestEncoder_CustomCompressor(t *testing.T) {
	img := loadGrid(t, "checker_rgba.json")
	fast := micropng.Encoder{Compressor: micropng.NewZlib(micropng.BestSpeed)}
	byLevel := micropng.Encoder{CompressionLevel: micropng.BestSpeed}

	if got, want := fast.CompressorName(), byLevel.CompressorName(); got != want {
		t.Errorf("CompressorName: got %q, want %q", got, want)
	}

	a, err := fast.Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := byLevel.Encode(img)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("explicit compressor and compression level disagree")
	}

	var c micropng.Compressor = brokenCompressor{}
	if _, err := (&micropng.Encoder{Compressor: c}).Encode(img); err == nil {
		t.Error("expected error from broken compressor")
	}
}

func BenchmarkEncodePNG(b *testing.B) {
	img := raster.Gradient(800, 600)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = micropng.EncodePNG(img)
	}
}
