package main

import (
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// readInput reads path, transparently decompressing it if it carries a
// ".zst" extension or opens with the zstd magic number — a fixture that
// happens to be zstd-compressed shouldn't need a separate decompress step
// before it can be parsed.
func readInput(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") && !looksZstd(raw) {
		return raw, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(raw, nil)
}

var zstdMagic = [4]byte{0x28, 0xb5, 0x2f, 0xfd}

func looksZstd(b []byte) bool {
	return len(b) >= 4 && b[0] == zstdMagic[0] && b[1] == zstdMagic[1] && b[2] == zstdMagic[2] && b[3] == zstdMagic[3]
}
