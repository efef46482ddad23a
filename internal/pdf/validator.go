package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/spherical/isbn-sniffer/internal/domain"
)

// Validator checks input paths before any extraction starts
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateInputPath reports whether path names an existing, readable
// regular file.
func (v *Validator) ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return domain.ValidationError(fmt.Sprintf("not a regular file: %s", path), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	return f.Close()
}
