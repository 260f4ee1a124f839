package todo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when a filter or save method is outside its closed set.
var ErrInvalidArgument = errors.New("invalid argument")

// Filter is the list view selected in the footer.
type Filter int

// supported filters
const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists all supported filters in footer order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// String returns the lower-case filter name.
func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// Route returns the url fragment for the filter, i.e. "#/", "#/active" or "#/completed"
func (f Filter) Route() string {
	if f == FilterAll {
		return "#/"
	}
	return "#/" + f.String()
}

// HashbangRoute returns the "#!/" alias of Route.
func (f Filter) HashbangRoute() string {
	return strings.Replace(f.Route(), "#/", "#!/", 1)
}

func (f Filter) validate() error {
	if f < FilterAll || f > FilterCompleted {
		return fmt.Errorf("unknown %s: %w", f, ErrInvalidArgument)
	}
	return nil
}

// linkName is the accessible name of the footer link
func (f Filter) linkName() string {
	s := f.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseFilter converts a filter name (case-insensitive) to Filter.
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter %q: %w", s, ErrInvalidArgument)
}

// SaveMethod defines how an edit is finished.
type SaveMethod int

// supported save methods
const (
	SaveEnter  SaveMethod = iota // commit by pressing Enter
	SaveBlur                     // commit by moving focus away
	SaveEscape                   // discard changes
)

// String returns the lower-case save method name.
func (m SaveMethod) String() string {
	switch m {
	case SaveEnter:
		return "enter"
	case SaveBlur:
		return "blur"
	case SaveEscape:
		return "escape"
	default:
		return fmt.Sprintf("save-method(%d)", int(m))
	}
}

func (m SaveMethod) validate() error {
	if m < SaveEnter || m > SaveEscape {
		return fmt.Errorf("unknown %s: %w", m, ErrInvalidArgument)
	}
	return nil
}

// ParseSaveMethod converts a save method name (case-insensitive) to SaveMethod.
func ParseSaveMethod(s string) (SaveMethod, error) {
	for _, m := range []SaveMethod{SaveEnter, SaveBlur, SaveEscape} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return SaveEnter, fmt.Errorf("unknown save method %q: %w", s, ErrInvalidArgument)
}
