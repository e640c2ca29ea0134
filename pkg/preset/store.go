package preset

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/darkroom/pkg/errors"
)

// ErrNotFound is returned by Store.Get and Store.Delete for unknown IDs.
var ErrNotFound = stderrors.New("preset not found")

// Record is a stored preset with its share code.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Preset    Preset    `json:"preset" bson:"preset"`
	Code      string    `json:"code" bson:"code"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for preset storage backends.
type Store interface {
	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Save inserts or replaces a record.
	Save(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting an unknown ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all records, oldest first.
	List(ctx context.Context) ([]*Record, error)

	// Close releases backend resources.
	Close() error
}

// NewRecord validates p and wraps it in a record with a fresh ID.
func NewRecord(p Preset) (*Record, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	code, err := Encode(p)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		Preset:    p,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update replaces the record's preset and refreshes its share code.
func (r *Record) Update(p Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	code, err := Encode(p)
	if err != nil {
		return err
	}
	r.Preset = p
	r.Code = code
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// IsNotFound reports whether err means a missing preset.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodePresetNotFound, ErrNotFound, "preset %q", id)
}

func sortRecords(recs []*Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID < recs[j].ID
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
}
