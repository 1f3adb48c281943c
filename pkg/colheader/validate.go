package colheader

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGroup   = errors.New("group has no columns")
	ErrDuplicateKey = errors.New("duplicate column key")
	ErrMissingKey   = errors.New("data column has no key")
	ErrUnknownType  = errors.New("unknown column type")
)

// Validate checks that a column tree is well formed: every group has at least
// one child, every data column has a key and no key is used twice. All
// problems are reported, joined into a single error.
//
// BuildHeaderGrid and CollectLeaves do not call Validate.
func Validate(columns []Column) error {
	v := &validator{seen: make(map[string]string)}
	v.walk("columns", columns)
	return errors.Join(v.errs...)
}

type validator struct {
	seen map[string]string // key -> path of first use
	errs []error
}

func (v *validator) walk(prefix string, columns []Column) {
	for i, column := range columns {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch {
		case column.IsLeaf():
			if column.Key == "" {
				v.errs = append(v.errs, fmt.Errorf("%s %q: %w", path, column.Name, ErrMissingKey))
				continue
			}
			if first, ok := v.seen[column.Key]; ok {
				v.errs = append(v.errs, fmt.Errorf("%s: %w %q (first used at %s)", path, ErrDuplicateKey, column.Key, first))
				continue
			}
			v.seen[column.Key] = path
		case column.IsGroup():
			if len(column.Columns) == 0 {
				v.errs = append(v.errs, fmt.Errorf("%s %q: %w", path, column.Name, ErrEmptyGroup))
				continue
			}
			v.walk(path+".columns", column.Columns)
		default:
			v.errs = append(v.errs, fmt.Errorf("%s: %w %q", path, ErrUnknownType, column.Type))
		}
	}
}
