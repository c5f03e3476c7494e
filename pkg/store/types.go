package store

import "github.com/ssargent/gersemi/pkg/dtype"

// Errors
var (
	ErrStorageUnavailable = &StoreError{"storage path cannot be created or used"}
	ErrNotFound           = &StoreError{"not found"}
	ErrCorruptIndex       = &StoreError{"corrupt container index"}
	ErrCorruptDescriptor  = &StoreError{"corrupt block descriptor"}
	ErrDuplicateName      = &StoreError{"duplicate block name"}
	ErrInvalidName        = &StoreError{"invalid block name"}
	ErrUnsupportedAccess  = &StoreError{"partial access unsupported by codec"}
)

// StoreError represents a block store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// manifestVersion is the current container format generation. Version 0 is
// the legacy form: blocks.json holding a bare sorted name array with the
// raw codec implied.
const manifestVersion = 1

// manifest is the persisted container index.
type manifest struct {
	Version int      `json:"version"`
	ID      string   `json:"id"`
	Codec   string   `json:"codec"`
	Blocks  []string `json:"blocks"`
}

// descriptor is the persisted shape and element type of one block. The raw
// codec variant stores it as JSON, the compressed variant as msgpack.
type descriptor struct {
	Dtype dtype.Type `json:"dtype" msgpack:"dtype"`
	Shape []int      `json:"shape" msgpack:"shape"`
}
