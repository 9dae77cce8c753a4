package domain

import "strings"

// CollectionType is the server's numeric content type
type CollectionType int

const (
	DocumentCollection CollectionType = 2
	EdgeCollection     CollectionType = 3
)

// String returns "document" or "edge"
func (t CollectionType) String() string {
	switch t {
	case EdgeCollection:
		return "edge"
	case DocumentCollection:
		return "document"
	default:
		return "unknown"
	}
}

// ParseCollectionType maps "document"/"edge" to the numeric type
func ParseCollectionType(s string) (CollectionType, bool) {
	switch strings.ToLower(s) {
	case "document":
		return DocumentCollection, true
	case "edge":
		return EdgeCollection, true
	}
	return 0, false
}

// Status is the load state of a collection on the server
type Status int

const (
	StatusNewBorn       Status = 1
	StatusUnloaded      Status = 2
	StatusLoaded        Status = 3
	StatusBeingUnloaded Status = 4
	StatusDeleted       Status = 5
	StatusLoading       Status = 6
)

func (s Status) IsNewBorn() bool       { return s == StatusNewBorn }
func (s Status) IsUnloaded() bool      { return s == StatusUnloaded }
func (s Status) IsLoaded() bool        { return s == StatusLoaded }
func (s Status) IsBeingUnloaded() bool { return s == StatusBeingUnloaded }
func (s Status) IsDeleted() bool       { return s == StatusDeleted }
func (s Status) IsLoading() bool       { return s == StatusLoading }

// IsCorrupted reports a status code outside the known range
func (s Status) IsCorrupted() bool { return s < StatusNewBorn || s > StatusLoading }

func (s Status) String() string {
	switch s {
	case StatusNewBorn:
		return "new born"
	case StatusUnloaded:
		return "unloaded"
	case StatusLoaded:
		return "loaded"
	case StatusBeingUnloaded:
		return "being unloaded"
	case StatusDeleted:
		return "deleted"
	case StatusLoading:
		return "loading"
	default:
		return "corrupted"
	}
}

// RawCollection is a collection description as returned by the server
type RawCollection struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Type        CollectionType `json:"type"`
	IsSystem    bool           `json:"isSystem"`
	WaitForSync *bool          `json:"waitForSync,omitempty"`
	IsVolatile  *bool          `json:"isVolatile,omitempty"`
	KeyOptions  *KeyOptions    `json:"keyOptions,omitempty"`
	Count       *int64         `json:"count,omitempty"`
	Figures     *Figures       `json:"figures,omitempty"`
}

// CollectionList is the response of the collection listing
type CollectionList struct {
	Collections []RawCollection `json:"collections"`
	Result      []RawCollection `json:"result"`
}

// All returns whichever listing the server filled in
func (l CollectionList) All() []RawCollection {
	if len(l.Collections) > 0 {
		return l.Collections
	}
	return l.Result
}

// KeyOptions controls how the server generates document keys
type KeyOptions struct {
	Type          string `json:"type,omitempty"`
	Offset        int    `json:"offset,omitempty"`
	Increment     int    `json:"increment,omitempty"`
	AllowUserKeys bool   `json:"allowUserKeys"`
}

// Figures is a subset of the collection statistics
type Figures struct {
	Alive     FigureCount `json:"alive"`
	Dead      DeadFigure  `json:"dead"`
	Datafiles FileFigure  `json:"datafiles"`
	Journals  FileFigure  `json:"journals"`
	Shapes    FigureCount `json:"shapes"`
}

type FigureCount struct {
	Count int64 `json:"count"`
	Size  int64 `json:"size"`
}

type DeadFigure struct {
	Count    int64 `json:"count"`
	Size     int64 `json:"size"`
	Deletion int64 `json:"deletion"`
}

type FileFigure struct {
	Count    int64 `json:"count"`
	FileSize int64 `json:"fileSize"`
}
