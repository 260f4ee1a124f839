package todo

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/tidwall/gjson"
)

// ErrNoStorage is returned when the browsing context has no persisted entry for the page origin.
var ErrNoStorage = errors.New("no persisted storage")

// StorageEntry is a single localStorage name/value pair.
type StorageEntry struct {
	Name  string
	Value string
}

// StoredTodo is one record of the persisted todo list.
type StoredTodo struct {
	Title     string
	Completed bool
	Keys      []string // object keys in stored order
}

// GetLocalStorage captures the storage state of the page's browsing context and returns
// the todo entry for the page origin. If no entry name contains the storage key,
// the first entry of the origin is returned.
func (p *Page) GetLocalStorage() (StorageEntry, error) {
	state, err := p.page.Context().StorageState()
	if err != nil {
		return StorageEntry{}, fmt.Errorf("failed to capture storage state: %w", err)
	}
	entry, ok := pickEntry(state, originOf(p.page.URL()), p.storageKey)
	if !ok {
		return StorageEntry{}, ErrNoStorage
	}
	return entry, nil
}

// StoredTodos returns the persisted todo records for the page origin, in list order.
func (p *Page) StoredTodos() ([]StoredTodo, error) {
	entry, err := p.GetLocalStorage()
	if err != nil {
		return nil, err
	}
	return ParseStoredTodos(entry.Value)
}

// ParseStoredTodos decodes a persisted todo list. Keys of every record are kept
// in the order they appear in the stored json.
func ParseStoredTodos(value string) ([]StoredTodo, error) {
	if !gjson.Valid(value) {
		return nil, fmt.Errorf("stored todos are not valid json: %q", value)
	}
	list := gjson.Parse(value)
	if !list.IsArray() {
		return nil, fmt.Errorf("stored todos are not a json array: %q", value)
	}

	var res []StoredTodo
	var parseErr error
	list.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			parseErr = fmt.Errorf("stored todo #%d is not an object: %s", len(res)+1, rec.Raw)
			return false
		}
		item := StoredTodo{}
		rec.ForEach(func(key, val gjson.Result) bool {
			item.Keys = append(item.Keys, key.String())
			switch key.String() {
			case "title":
				item.Title = val.String()
			case "completed":
				item.Completed = val.Bool()
			}
			return true
		})
		res = append(res, item)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return res, nil
}

// pickEntry finds the entry for origin, falling back to the first origin with any entries
func pickEntry(state *playwright.StorageState, origin, key string) (StorageEntry, bool) {
	if state == nil {
		return StorageEntry{}, false
	}

	var candidates []playwright.NameValue
	for _, o := range state.Origins {
		if strings.TrimSuffix(o.Origin, "/") == origin {
			candidates = o.LocalStorage
			break
		}
	}
	if len(candidates) == 0 {
		for _, o := range state.Origins {
			if len(o.LocalStorage) > 0 {
				candidates = o.LocalStorage
				break
			}
		}
	}
	if len(candidates) == 0 {
		return StorageEntry{}, false
	}

	for _, nv := range candidates {
		if key != "" && strings.Contains(nv.Name, key) {
			return StorageEntry{Name: nv.Name, Value: nv.Value}, true
		}
	}
	return StorageEntry{Name: candidates[0].Name, Value: candidates[0].Value}, true
}

// originOf returns scheme://host[:port] of the page url, empty if it can't be parsed
func originOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
