package domain

import "github.com/Apurer/petstore-api-harness/internal/shared/optional"

// Status represents the lifecycle state of a pet inside the store catalog.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

// Statuses lists the values the remote contract accepts, in wire order.
func Statuses() []Status {
	return []Status{StatusAvailable, StatusPending, StatusSold}
}

// Valid reports whether s is one of the contract literals.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusSold:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// Category groups pets in the catalog.
type Category struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Tag is a lightweight marker attached to pets for filtering.
type Tag struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Pet is the wire record exchanged with the /pet endpoints. Name and PhotoURLs
// are required by the remote contract but nothing here enforces it, so invalid
// pets can be forwarded on purpose.
type Pet struct {
	ID        *int64    `json:"id,omitempty"`
	Category  *Category `json:"category,omitempty"`
	Name      string    `json:"name"`
	PhotoURLs []string  `json:"photoUrls,omitempty"`
	Tags      []Tag     `json:"tags,omitempty"`
	Status    Status    `json:"status,omitempty"`
}

// Clone returns a deep copy suitable for local mutation before re-submission.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	clone := *p
	clone.ID = optional.Clone(p.ID)
	if p.Category != nil {
		cat := *p.Category
		cat.ID = optional.Clone(p.Category.ID)
		clone.Category = &cat
	}
	if p.PhotoURLs != nil {
		clone.PhotoURLs = append([]string{}, p.PhotoURLs...)
	}
	if p.Tags != nil {
		clone.Tags = make([]Tag, len(p.Tags))
		for i, tag := range p.Tags {
			clone.Tags[i] = Tag{ID: optional.Clone(tag.ID), Name: tag.Name}
		}
	}
	return &clone
}
