package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Entry — одна запись авто-реакции.
type Entry struct {
	UserID string
	Emoji  string
	SetBy  string // кто поставил (только для аудита)
}

// формат записи в файле: {"<id>": {"emoji": "...", "set_by": 123}}
type record struct {
	Emoji string `json:"emoji"`
	SetBy uint64 `json:"set_by"`
}

// Registry хранит соответствие userID -> эмодзи и пишет его на диск при каждом изменении.
type Registry struct {
	mu      sync.Mutex
	path    string
	log     *zap.Logger
	order   []string // порядок вставки, для стабильного вывода
	entries map[string]Entry
}

func newRegistry(path string, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		path:    path,
		log:     log,
		entries: make(map[string]Entry),
	}
}

// EnsureFile создаёт пустой файл состояния ("{}"), если его нет.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	return os.WriteFile(path, []byte("{}"), 0o644)
}

// Load читает состояние с диска. Отсутствующий или битый файл — это пустой реестр, не ошибка.
func Load(path string, log *zap.Logger) *Registry {
	r := newRegistry(path, log)

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.log.Info("state file not found, starting empty", zap.String("path", path))
		} else {
			r.log.Warn("state file unreadable, starting empty", zap.String("path", path), zap.Error(err))
		}
		return r
	}

	order, entries, err := decode(b)
	if err != nil {
		r.log.Warn("state file malformed, starting empty", zap.String("path", path), zap.Error(err))
		return r
	}
	r.order, r.entries = order, entries
	r.log.Info("state loaded", zap.String("path", path), zap.Int("entries", len(order)))
	return r
}

// Set добавляет или перезаписывает запись и сразу сохраняет реестр.
// При ошибке записи изменение в памяти откатывается.
func (r *Registry) Set(userID, emoji, setBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, existed := r.entries[userID]
	r.entries[userID] = Entry{UserID: userID, Emoji: emoji, SetBy: setBy}
	if !existed {
		r.order = append(r.order, userID)
	}

	if err := r.saveLocked(); err != nil {
		if existed {
			r.entries[userID] = prev
		} else {
			delete(r.entries, userID)
			r.order = r.order[:len(r.order)-1]
		}
		return err
	}
	return nil
}

// Unset удаляет запись. found=false — записи не было, это нормальный исход.
func (r *Registry) Unset(userID string) (found bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.entries[userID]
	if !ok {
		return false, nil
	}
	idx := indexOf(r.order, userID)
	delete(r.entries, userID)
	r.order = append(r.order[:idx:idx], r.order[idx+1:]...)

	if err := r.saveLocked(); err != nil {
		r.entries[userID] = prev
		r.order = append(r.order[:idx:idx], append([]string{userID}, r.order[idx:]...)...)
		return true, err
	}
	return true, nil
}

// Watched — O(1) проверка для обработчика сообщений.
func (r *Registry) Watched(userID string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	return e, ok
}

// List возвращает копию записей в порядке добавления.
func (r *Registry) List() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) Path() string { return r.path }

func (r *Registry) saveLocked() error {
	b, err := encode(r.order, r.entries)
	if err != nil {
		return err
	}
	if err := writeFile(r.path, b); err != nil {
		r.log.Error("save state", zap.String("path", r.path), zap.Error(err))
		return fmt.Errorf("save %s: %w", r.path, err)
	}
	r.log.Debug("state saved", zap.Int("entries", len(r.order)))
	return nil
}

// decode разбирает объект верхнего уровня потоково, чтобы сохранить порядок ключей.
// Лишние поля внутри записи игнорируются.
func decode(b []byte) ([]string, map[string]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var order []string
	entries := make(map[string]Entry)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected key %v", tok)
		}
		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, nil, fmt.Errorf("entry %s: %w", id, err)
		}
		if _, dup := entries[id]; !dup {
			order = append(order, id)
		}
		e := Entry{UserID: id, Emoji: rec.Emoji}
		if rec.SetBy != 0 {
			e.SetBy = strconv.FormatUint(rec.SetBy, 10)
		}
		entries[id] = e
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, errors.New("trailing data after object")
	}
	return order, entries, nil
}

func encode(order []string, entries map[string]Entry) ([]byte, error) {
	if len(order) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, id := range order {
		e := entries[id]
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		setBy, _ := strconv.ParseUint(e.SetBy, 10, 64)
		val, err := marshalIndent(record{Emoji: e.Emoji, SetBy: setBy})
		if err != nil {
			return nil, err
		}
		buf.WriteString("    ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(order)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// как json.MarshalIndent, но без экранирования <> в кастомных эмодзи (<:name:id>)
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("    ", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// пишем во временный файл рядом и переименовываем поверх
func writeFile(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
