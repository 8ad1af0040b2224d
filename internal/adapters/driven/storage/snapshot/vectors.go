package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// Vector artifact framing: magic, format version, dimensionality and
// row count, then per row a length-prefixed doc id followed by the
// little-endian float32 vector.
const (
	vectorsMagic   = "STRV"
	vectorsVersion = uint32(1)

	// maxIDLength bounds the id length field so a corrupt file cannot
	// trigger an absurd allocation.
	maxIDLength = 1 << 16
)

func writeVectors(path string, snap *domain.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating vectors file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if _, err := w.WriteString(vectorsMagic); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	header := []uint32{vectorsVersion, uint32(snap.VectorDimensions), uint32(len(snap.VectorIDs))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, id := range snap.VectorIDs {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(id))); err != nil {
			return fmt.Errorf("writing id length: %w", err)
		}
		if _, err := w.WriteString(id); err != nil {
			return fmt.Errorf("writing id: %w", err)
		}
		for _, val := range snap.VectorRows[i] {
			if err := binary.Write(w, binary.LittleEndian, math.Float32bits(val)); err != nil {
				return fmt.Errorf("writing row %s: %w", id, err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing vectors file: %w", err)
	}
	return f.Sync()
}

// readVectors fills the snapshot's vector fields from the artifact.
// Any framing violation maps to domain.ErrCorruptIndex.
func readVectors(path string, snap *domain.Snapshot) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: vector artifact missing", domain.ErrCorruptIndex)
	}
	if err != nil {
		return fmt.Errorf("opening vectors file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	magic := make([]byte, len(vectorsMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return fmt.Errorf("%w: vector artifact truncated", domain.ErrCorruptIndex)
	}
	if string(magic) != vectorsMagic {
		return fmt.Errorf("%w: bad vector artifact magic %q", domain.ErrCorruptIndex, magic)
	}

	var version, dims, count uint32
	for _, field := range []*uint32{&version, &dims, &count} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("%w: vector artifact truncated", domain.ErrCorruptIndex)
		}
	}
	if version != vectorsVersion {
		return fmt.Errorf("%w: unsupported vector artifact version %d", domain.ErrCorruptIndex, version)
	}

	ids := make([]string, 0, count)
	rows := make([][]float32, 0, count)
	for i := uint32(0); i < count; i++ {
		var idLen uint32
		if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
			return fmt.Errorf("%w: vector artifact truncated", domain.ErrCorruptIndex)
		}
		if idLen == 0 || idLen > maxIDLength {
			return fmt.Errorf("%w: implausible id length %d", domain.ErrCorruptIndex, idLen)
		}

		idBytes := make([]byte, idLen)
		if _, err := io.ReadFull(r, idBytes); err != nil {
			return fmt.Errorf("%w: vector artifact truncated", domain.ErrCorruptIndex)
		}

		row := make([]float32, dims)
		for j := range row {
			var bits uint32
			if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
				return fmt.Errorf("%w: vector artifact truncated", domain.ErrCorruptIndex)
			}
			row[j] = math.Float32frombits(bits)
		}

		ids = append(ids, string(idBytes))
		rows = append(rows, row)
	}

	if _, err := r.ReadByte(); err != io.EOF {
		return fmt.Errorf("%w: trailing bytes in vector artifact", domain.ErrCorruptIndex)
	}

	snap.VectorDimensions = int(dims)
	snap.VectorIDs = ids
	snap.VectorRows = rows
	return nil
}
