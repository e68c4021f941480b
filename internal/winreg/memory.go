package winreg

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Adapter. Like the real registry, key and value names
// are case-insensitive and CreateKey creates missing ancestors.
type Memory struct {
	mu     sync.Mutex
	keys   map[string]*memKey
	faults map[string]error
	writes int
}

type memKey struct {
	name   string
	values map[string]memValue
}

type memValue struct {
	name string
	data string
}

// NewMemory returns an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{keys: map[string]*memKey{}, faults: map[string]error{}}
}

// Fail makes every subsequent op ("create", "delete", "set", "get",
// "delete-value", "subkeys") on path return err.
func (m *Memory) Fail(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[faultKey(op, path)] = err
}

// Writes returns how many mutating calls have succeeded.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Snapshot returns a copy of every key and its values, keyed by lowercased
// path then lowercased value name.
func (m *Memory) Snapshot() map[string]map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]map[string]string, len(m.keys))
	for path, k := range m.keys {
		values := make(map[string]string, len(k.values))
		for name, v := range k.values {
			values[name] = v.data
		}
		out[path] = values
	}
	return out
}

func (m *Memory) CreateKey(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("create", path); err != nil {
		return err
	}
	parts := strings.Split(strings.Trim(path, `\`), `\`)
	for i := range parts {
		sub := normalize(strings.Join(parts[:i+1], `\`))
		if _, ok := m.keys[sub]; !ok {
			m.keys[sub] = &memKey{name: parts[i], values: map[string]memValue{}}
		}
	}
	m.writes++
	return nil
}

func (m *Memory) DeleteKey(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("delete", path); err != nil {
		return err
	}
	key := normalize(path)
	if _, ok := m.keys[key]; !ok {
		return fmt.Errorf("delete key %s: %w", path, ErrNotExist)
	}
	if len(m.children(key)) > 0 {
		return fmt.Errorf("delete key %s: %w", path, ErrHasSubKeys)
	}
	delete(m.keys, key)
	m.writes++
	return nil
}

func (m *Memory) SetString(path, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("set", path); err != nil {
		return err
	}
	k, ok := m.keys[normalize(path)]
	if !ok {
		return fmt.Errorf("open key %s: %w", path, ErrNotExist)
	}
	k.values[strings.ToLower(name)] = memValue{name: name, data: value}
	m.writes++
	return nil
}

func (m *Memory) GetString(path, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("get", path); err != nil {
		return "", err
	}
	k, ok := m.keys[normalize(path)]
	if !ok {
		return "", fmt.Errorf("open key %s: %w", path, ErrNotExist)
	}
	v, ok := k.values[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("read %s\\%s: %w", path, name, ErrNotExist)
	}
	return v.data, nil
}

func (m *Memory) DeleteValue(path, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("delete-value", path); err != nil {
		return err
	}
	k, ok := m.keys[normalize(path)]
	if !ok {
		return fmt.Errorf("open key %s: %w", path, ErrNotExist)
	}
	if _, ok := k.values[strings.ToLower(name)]; !ok {
		return fmt.Errorf("delete %s\\%s: %w", path, name, ErrNotExist)
	}
	delete(k.values, strings.ToLower(name))
	m.writes++
	return nil
}

func (m *Memory) SubKeys(path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("subkeys", path); err != nil {
		return nil, err
	}
	key := normalize(path)
	if _, ok := m.keys[key]; !ok {
		return nil, fmt.Errorf("open key %s: %w", path, ErrNotExist)
	}
	return m.children(key), nil
}

// children returns the display names of key's direct subkeys. Callers hold mu.
func (m *Memory) children(key string) []string {
	prefix := key + `\`
	var names []string
	for path, k := range m.keys {
		if strings.HasPrefix(path, prefix) && !strings.Contains(path[len(prefix):], `\`) {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

func (m *Memory) fault(op, path string) error {
	if err, ok := m.faults[faultKey(op, path)]; ok {
		return err
	}
	return nil
}

func faultKey(op, path string) string {
	return op + ":" + normalize(path)
}

func normalize(path string) string {
	return strings.ToLower(strings.Trim(path, `\`))
}

var _ Adapter = (*Memory)(nil)
