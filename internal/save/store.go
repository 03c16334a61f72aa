// Package save writes and reads numbered save slots. Each slot is a
// zstd-compressed JSON envelope around a game snapshot; a SQLite index keeps
// the slot metadata for listing without opening every file.
package save

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/telemetry"
)

// FormatVersion is the envelope version written by this build.
const FormatVersion = 1

var (
	// ErrInvalidSlot is returned for a slot outside 1..Slots.
	ErrInvalidSlot = errors.New("invalid save slot")
	// ErrNoSave is returned when a slot holds no save.
	ErrNoSave = errors.New("no save in slot")
	// ErrChecksum is returned when a save's snapshot does not match its checksum.
	ErrChecksum = errors.New("save checksum mismatch")
)

// Envelope is the on-disk form of a save.
type Envelope struct {
	Version  int             `json:"version"`
	SaveID   string          `json:"save_id"`
	SavedAt  time.Time       `json:"saved_at"`
	Checksum uint64          `json:"checksum"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Meta describes the save in one slot.
type Meta struct {
	Slot     int
	SaveID   string
	Day      int
	Turn     int
	X, Y     int
	SavedAt  time.Time
	Checksum uint64
}

// Loaded is a save read back from a slot.
type Loaded struct {
	Snapshot game.Snapshot
	Meta     Meta
	// Compatible is false when the save was written by another format version.
	// The snapshot is still returned.
	Compatible bool
}

// Store manages the save slots in one directory.
type Store struct {
	dir   string
	slots int
	index *Index

	maxTries      uint
	retryInterval time.Duration
	write         func(path string, data []byte) error
	now           func() time.Time
}

// Open opens (creating if needed) the save directory and its index.
func Open(dir string, slots int) (*Store, error) {
	if slots < 1 {
		return nil, fmt.Errorf("%w: store needs at least one slot", ErrInvalidSlot)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save dir: %w", err)
	}
	index, err := OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, err
	}
	return &Store{
		dir:           dir,
		slots:         slots,
		index:         index,
		maxTries:      4,
		retryInterval: 100 * time.Millisecond,
		write:         writeCompressed,
		now:           time.Now,
	}, nil
}

// Close closes the index.
func (s *Store) Close() error {
	return s.index.Close()
}

// Slots returns the number of slots.
func (s *Store) Slots() int {
	return s.slots
}

// Path returns the file a slot is stored in.
func (s *Store) Path(slot int) string {
	return filepath.Join(s.dir, fmt.Sprintf("save_slot_%d.json.zst", slot))
}

func (s *Store) checkSlot(slot int) error {
	if slot < 1 || slot > s.slots {
		return fmt.Errorf("%w: %d (have 1-%d)", ErrInvalidSlot, slot, s.slots)
	}
	return nil
}

// Save writes snap to a slot, replacing what was there.
func (s *Store) Save(ctx context.Context, slot int, snap game.Snapshot) (Meta, error) {
	ctx, span := telemetry.Tracer("save").Start(ctx, "save.write")
	defer span.End()
	span.SetAttributes(attribute.Int("save.slot", slot))

	if err := s.checkSlot(slot); err != nil {
		return Meta{}, err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return Meta{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	env := Envelope{
		Version:  FormatVersion,
		SaveID:   uuid.NewString(),
		SavedAt:  s.now().UTC(),
		Checksum: xxhash.Sum64(payload),
		Snapshot: payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return Meta{}, fmt.Errorf("encoding envelope: %w", err)
	}

	path := s.Path(slot)
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	tries := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		tries++
		err := s.write(path, data)
		if errors.Is(err, fs.ErrPermission) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.maxTries))
	span.SetAttributes(attribute.Int("save.tries", tries))
	if err != nil {
		return Meta{}, fmt.Errorf("writing slot %d: %w", slot, err)
	}

	meta := Meta{
		Slot:     slot,
		SaveID:   env.SaveID,
		Day:      snap.Day,
		Turn:     snap.Turn,
		X:        snap.Player.X,
		Y:        snap.Player.Y,
		SavedAt:  env.SavedAt,
		Checksum: env.Checksum,
	}
	if err := s.index.Put(ctx, meta); err != nil {
		return meta, err
	}
	span.SetAttributes(attribute.String("save.id", meta.SaveID), attribute.Int("save.bytes", len(data)))
	logger.For("save").WithField("slot", slot).WithField("save_id", meta.SaveID).
		WithField("tries", tries).Info("game saved")
	return meta, nil
}

// Load reads the save in a slot.
func (s *Store) Load(ctx context.Context, slot int) (Loaded, error) {
	_, span := telemetry.Tracer("save").Start(ctx, "save.read")
	defer span.End()
	span.SetAttributes(attribute.Int("save.slot", slot))

	if err := s.checkSlot(slot); err != nil {
		return Loaded{}, err
	}
	env, err := readCompressed(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return Loaded{}, fmt.Errorf("%w %d", ErrNoSave, slot)
	}
	if err != nil {
		return Loaded{}, fmt.Errorf("reading slot %d: %w", slot, err)
	}
	if sum := xxhash.Sum64(env.Snapshot); sum != env.Checksum {
		return Loaded{}, fmt.Errorf("%w: slot %d", ErrChecksum, slot)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(env.Snapshot, &snap); err != nil {
		return Loaded{}, fmt.Errorf("decoding slot %d snapshot: %w", slot, err)
	}

	loaded := Loaded{
		Snapshot:   snap,
		Compatible: env.Version == FormatVersion && snap.Version == game.SnapshotVersion,
		Meta: Meta{
			Slot:     slot,
			SaveID:   env.SaveID,
			Day:      snap.Day,
			Turn:     snap.Turn,
			X:        snap.Player.X,
			Y:        snap.Player.Y,
			SavedAt:  env.SavedAt,
			Checksum: env.Checksum,
		},
	}
	log := logger.For("save").WithField("slot", slot).WithField("save_id", env.SaveID)
	if !loaded.Compatible {
		log.WithField("version", env.Version).WithField("snapshot_version", snap.Version).
			Warn("save version differs from this build")
	}
	span.SetAttributes(attribute.String("save.id", env.SaveID), attribute.Bool("save.compatible", loaded.Compatible))
	log.Info("game loaded")
	return loaded, nil
}

// Delete removes the save in a slot. Deleting an empty slot is not an error.
func (s *Store) Delete(ctx context.Context, slot int) error {
	if err := s.checkSlot(slot); err != nil {
		return err
	}
	if err := os.Remove(s.Path(slot)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting slot %d: %w", slot, err)
	}
	return s.index.Delete(ctx, slot)
}

// List returns the metadata of every occupied slot in slot order.
func (s *Store) List(ctx context.Context) ([]Meta, error) {
	metas, err := s.index.List(ctx)
	if err != nil {
		return nil, err
	}
	out := metas[:0]
	for _, m := range metas {
		if m.Slot >= 1 && m.Slot <= s.slots {
			out = append(out, m)
		}
	}
	return out, nil
}

// writeCompressed writes data zstd-compressed to a temporary file and renames
// it over path, so a failed write never leaves a truncated save.
func writeCompressed(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	_, werr := bw.Write(data)
	if werr == nil {
		werr = bw.Flush()
	}
	if cerr := enc.Close(); werr == nil {
		werr = cerr
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmp)
		return werr
	}
	return os.Rename(tmp, path)
}

func readCompressed(path string) (Envelope, error) {
	var env Envelope
	f, err := os.Open(path)
	if err != nil {
		return env, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return env, err
	}
	defer dec.Close()

	if err := json.NewDecoder(bufio.NewReader(dec)).Decode(&env); err != nil {
		return env, fmt.Errorf("decoding envelope: %w", err)
	}
	return env, nil
}
