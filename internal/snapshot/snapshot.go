// Package snapshot writes built navigation grids to disk and reads them back.
//
// A snapshot file is a zstd stream holding one JSON header line followed by a
// gob encoded body.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pdrpinto/surfacenav"
)

// Version is the current snapshot format.
const Version = 1

var ErrUnsupportedVersion = errors.New("snapshot: unsupported version")

// Header describes a snapshot without decoding its nodes.
type Header struct {
	Version       int                    `json:"version"`
	Name          string                 `json:"name"`
	Digest        string                 `json:"digest,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	Region        surfacenav.Region      `json:"region"`
	DiagonalMoves bool                   `json:"diagonal_moves"`
	Result        surfacenav.BuildResult `json:"result"`
}

// Snapshot is a built grid ready to be restored.
type Snapshot struct {
	Header Header
	Nodes  []surfacenav.Node
}

// FromGraph captures graph under header. Version is filled in.
func FromGraph(header Header, graph *surfacenav.PathGraph) Snapshot {
	header.Version = Version
	header.DiagonalMoves = graph.Options().DiagonalMoves
	return Snapshot{Header: header, Nodes: graph.Nodes()}
}

// Graph restores the PathGraph the snapshot was taken from.
func (s Snapshot) Graph() *surfacenav.PathGraph {
	var options []surfacenav.GraphOption
	if s.Header.DiagonalMoves {
		options = append(options, surfacenav.WithDiagonalMoves())
	}
	return surfacenav.NewPathGraph(s.Nodes, options...)
}

func Write(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, err := json.Marshal(snap.Header)
	if err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode header: %w", err)
	}
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(snap.Nodes); err != nil {
		_ = enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadHeader decodes only the header line.
func ReadHeader(path string) (Header, error) {
	var header Header
	err := read(path, func(br *bufio.Reader) error {
		var err error
		header, err = decodeHeader(br)
		return err
	})
	return header, err
}

func Read(path string) (Snapshot, error) {
	var snap Snapshot
	err := read(path, func(br *bufio.Reader) error {
		header, err := decodeHeader(br)
		if err != nil {
			return err
		}
		snap.Header = header
		if err := gob.NewDecoder(br).Decode(&snap.Nodes); err != nil {
			return fmt.Errorf("gob decode: %w", err)
		}
		return nil
	})
	return snap, err
}

func read(path string, fn func(*bufio.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	return fn(bufio.NewReaderSize(dec, 64*1024))
}

func decodeHeader(br *bufio.Reader) (Header, error) {
	var header Header
	line, err := br.ReadBytes('\n')
	if err != nil {
		return header, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &header); err != nil {
		return header, fmt.Errorf("decode header: %w", err)
	}
	if header.Version != Version {
		return header, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}
	return header, nil
}
