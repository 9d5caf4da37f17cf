package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/easelkit/easel/pkg/canvas"
)

// =============================================================================
// Board - Canvas Serialization Format
// =============================================================================

// Board is the canonical serialization format for a canvas arrangement.
// Used for API responses, board files, and the Mongo-backed store.
//
// The format is designed for round-trip fidelity: save → load → save
// produces identical results, including node identities and positions.
type Board struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Nodes     []NodeRecord `json:"nodes" bson:"nodes"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// NodeRecord is the persisted form of one expanded-image node.
type NodeRecord struct {
	ID         string  `json:"id" bson:"id"`
	SourceID   string  `json:"source_id" bson:"source_id"`
	ImageURL   string  `json:"image_url" bson:"image_url"`
	RatioLabel string  `json:"ratio_label,omitempty" bson:"ratio_label,omitempty"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
}

// New creates an empty named board with a fresh identity.
func New(name string) Board {
	now := time.Now().UTC()
	return Board{
		ID:        uuid.NewString(),
		Name:      name,
		Nodes:     []NodeRecord{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// Canvas ↔ Board Conversion
// =============================================================================

// FromManager captures the live node set of a canvas manager into b,
// bumping UpdatedAt. Node order follows creation order.
func (b *Board) FromManager(m *canvas.Manager) {
	nodes := m.Nodes()
	b.Nodes = make([]NodeRecord, len(nodes))
	for i, n := range nodes {
		b.Nodes[i] = NodeRecord{
			ID:         n.ID,
			SourceID:   n.SourceID,
			ImageURL:   n.ImageURL,
			RatioLabel: n.RatioLabel,
			X:          n.Pos.X,
			Y:          n.Pos.Y,
		}
	}
	b.UpdatedAt = time.Now().UTC()
}

// ToManager materializes the board's nodes into a fresh canvas manager.
// Records with duplicate or empty IDs are rejected with an error, since a
// board violating the uniqueness invariant cannot be represented.
func (b Board) ToManager() (*canvas.Manager, error) {
	m := canvas.NewManager()
	for _, r := range b.Nodes {
		ok := m.Restore(canvas.Node{
			ID:         r.ID,
			SourceID:   r.SourceID,
			ImageURL:   r.ImageURL,
			RatioLabel: r.RatioLabel,
			Pos:        canvas.Point{X: r.X, Y: r.Y},
		})
		if !ok {
			return nil, fmt.Errorf("restore node %q: duplicate or empty id", r.ID)
		}
	}
	return m, nil
}

// =============================================================================
// Board Serialization API
// =============================================================================

// Marshal serializes a Board to pretty-printed JSON bytes.
func Marshal(b Board) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Board.
// Boards with an empty ID are rejected.
func Unmarshal(data []byte) (Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("unmarshal board: %w", err)
	}
	if b.ID == "" {
		return Board{}, fmt.Errorf("board must have an id")
	}
	return b, nil
}

// Write encodes a Board as JSON to an io.Writer.
func Write(b Board, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON board from an io.Reader.
func Read(r io.Reader) (Board, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Board{}, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// WriteFile writes a Board to a JSON file at path.
// The file is created with 0644 permissions.
func WriteFile(b Board, path string) error {
	data, err := Marshal(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a Board from a JSON file.
func ReadFile(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
