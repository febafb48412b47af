// Package snapshot saves settled views so they can be reloaded or exported
// later.
//
// A [Snapshot] is a [view.ViewSnapshot] plus an identifier and a creation
// time. Stores exist for three backends:
//   - [MemoryStore]: in-process, for the web server without persistence
//   - [FileStore]: one JSON file per snapshot, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
package snapshot

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/distortviz/pkg/distortion"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/view"
)

// Snapshot is a saved view.
type Snapshot struct {
	ID        string            `json:"id" bson:"_id"`
	Name      string            `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time         `json:"createdAt" bson:"created_at"`
	View      view.ViewSnapshot `json:"view" bson:"view"`
	// Colors duplicates View.Colors with string keys, which BSON requires.
	Colors map[string]string `json:"-" bson:"colors"`
}

// New captures v under a fresh identifier.
func New(v view.ViewSnapshot, name string) *Snapshot {
	s := &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		View:      v,
		Colors:    make(map[string]string, len(v.Colors)),
	}
	for k, c := range v.Colors {
		s.Colors[strconv.Itoa(k)] = c
	}
	return s
}

// ColorTable returns the saved colours, preferring View.Colors and falling
// back to the string-keyed copy.
func (s *Snapshot) ColorTable() distortion.ColorTable {
	if len(s.View.Colors) > 0 {
		return distortion.ColorTable(s.View.Colors).Clone()
	}
	out := make(distortion.ColorTable, len(s.Colors))
	for k, c := range s.Colors {
		if i, err := strconv.Atoi(k); err == nil {
			out[i] = c
		}
	}
	return out
}

// restore fills View.Colors after a backend that drops it.
func (s *Snapshot) restore() {
	if len(s.View.Colors) == 0 && len(s.Colors) > 0 {
		s.View.Colors = s.ColorTable()
	}
}

// Summary is a list entry.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Store persists snapshots. Get returns a NOT_FOUND error for unknown ids.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// ValidateID rejects identifiers that are not UUIDs.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.New(errs.ErrCodeInvalidInput, "invalid snapshot id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "snapshot %s not found", id)
}
