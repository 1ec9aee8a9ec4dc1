package nn

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"math"
	"os"
)

// Checkpoint file layout: magic, format version, JSON header describing
// every parameter, raw float32 payload, CRC32 of header+payload. The
// training driver never writes checkpoints on its own; callers invoke
// SaveState explicitly after a run.

const (
	checkpointMagic   = "DRFT"
	checkpointVersion = uint32(1)
)

type checkpointEntry struct {
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // byte offset into the payload
}

// SaveState writes the parameters to path. Parameter order defines the
// file order, so a model must enumerate its parameters deterministically.
func SaveState(path string, params []*Parameter) error {
	entries := make([]checkpointEntry, len(params))
	var payload bytes.Buffer

	for i, p := range params {
		entries[i] = checkpointEntry{
			Name:   p.Name(),
			Shape:  p.Tensor().Shape(),
			Offset: int64(payload.Len()),
		}
		for _, v := range p.Tensor().Data() {
			if err := binary.Write(&payload, binary.LittleEndian, math.Float32bits(v)); err != nil {
				return fmt.Errorf("checkpoint: encode %q: %w", p.Name(), err)
			}
		}
	}

	header, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("checkpoint: encode header: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(checkpointMagic)
	binary.Write(&buf, binary.LittleEndian, checkpointVersion)
	binary.Write(&buf, binary.LittleEndian, uint64(len(header)))
	buf.Write(header)
	buf.Write(payload.Bytes())

	crc := crc32.ChecksumIEEE(buf.Bytes()[len(checkpointMagic)+12:])
	binary.Write(&buf, binary.LittleEndian, crc)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", path, err)
	}
	return nil
}

// LoadState reads a checkpoint written by SaveState into params, which
// must enumerate the same parameters in the same order with the same
// shapes.
func LoadState(path string, params []*Parameter) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("checkpoint: read %s: %w", path, err)
	}
	if len(raw) < len(checkpointMagic)+16 || string(raw[:4]) != checkpointMagic {
		return fmt.Errorf("checkpoint: %s is not a drift checkpoint", path)
	}

	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != checkpointVersion {
		return fmt.Errorf("checkpoint: unsupported version %d", version)
	}

	headerLen := binary.LittleEndian.Uint64(raw[8:16])
	bodyStart := 16
	if uint64(len(raw)) < 16+headerLen+4 {
		return fmt.Errorf("checkpoint: %s is truncated", path)
	}

	body := raw[bodyStart : len(raw)-4]
	wantCRC := binary.LittleEndian.Uint32(raw[len(raw)-4:])
	if crc := crc32.ChecksumIEEE(body); crc != wantCRC {
		return fmt.Errorf("checkpoint: %s checksum mismatch (file %08x, computed %08x)", path, wantCRC, crc)
	}

	var entries []checkpointEntry
	if err := json.Unmarshal(body[:headerLen], &entries); err != nil {
		return fmt.Errorf("checkpoint: decode header: %w", err)
	}
	if len(entries) != len(params) {
		return fmt.Errorf("checkpoint: %d parameters in file, model has %d", len(entries), len(params))
	}

	payload := body[headerLen:]
	for i, e := range entries {
		p := params[i]
		if e.Name != p.Name() {
			return fmt.Errorf("checkpoint: parameter %d is %q in file, %q in model", i, e.Name, p.Name())
		}
		shape := p.Tensor().Shape()
		if !shape.Equal(e.Shape) {
			return fmt.Errorf("checkpoint: shape mismatch for %q: file %v, model %v", e.Name, e.Shape, shape)
		}

		data := p.Tensor().Data()
		need := int64(len(data)) * 4
		if e.Offset < 0 || e.Offset+need > int64(len(payload)) {
			return fmt.Errorf("checkpoint: payload out of range for %q", e.Name)
		}
		for j := range data {
			bits := binary.LittleEndian.Uint32(payload[e.Offset+int64(j)*4:])
			data[j] = math.Float32frombits(bits)
		}
	}
	return nil
}
