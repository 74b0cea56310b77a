package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDocumentName is the configuration file looked for when no path
// is given.
const DefaultDocumentName = "configuracion_labs.json"

// ResultsKey is the top-level document key the organized results are
// written under.
const ResultsKey = "resultados_organizacion"

func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.raw = raw
	if cfgRaw, ok := raw["configuracion"]; ok {
		var cfg Config
		if err := json.Unmarshal(cfgRaw, &cfg); err != nil {
			return fmt.Errorf("decoding configuracion: %w", err)
		}
		d.Config = &cfg
	}
	return nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.raw)+1)
	for k, v := range d.raw {
		out[k] = v
	}
	if _, ok := out["configuracion"]; !ok && d.Config != nil {
		enc, err := marshalNoEscape(d.Config)
		if err != nil {
			return nil, err
		}
		out["configuracion"] = enc
	}
	return json.Marshal(out)
}

// HasResults reports whether the document already carries organized
// results from a previous run.
func (d *Document) HasResults() bool {
	_, ok := d.raw[ResultsKey]
	return ok
}

// SetKey writes a top-level document key, replacing any previous value.
func (d *Document) SetKey(key string, v any) error {
	enc, err := marshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if d.raw == nil {
		d.raw = map[string]json.RawMessage{}
	}
	d.raw[key] = enc
	return nil
}

// ReplaceStudents swaps the student roster, updating both the preserved
// raw document and the typed view. Sibling keys of alumnos.datos are
// kept.
func (d *Document) ReplaceStudents(data map[string]*Student) error {
	if err := d.setSectionData("alumnos", data); err != nil {
		return err
	}
	if d.Config == nil {
		d.Config = &Config{}
	}
	d.Config.Students = &StudentsSection{Data: data}
	return nil
}

// ReplaceCalendarSemester swaps one semester's dated sessions, updating
// both the preserved raw document and the typed view.
func (d *Document) ReplaceCalendarSemester(semKey string, days map[string]*CalendarDay) error {
	cfg := d.rawConfig()
	sec := rawObject(cfg["calendario"])
	datos := rawObject(sec["datos"])
	enc, err := marshalNoEscape(days)
	if err != nil {
		return fmt.Errorf("encoding calendar days: %w", err)
	}
	datos[semKey] = enc
	if err := foldRaw(sec, "datos", datos); err != nil {
		return err
	}
	if err := foldRaw(cfg, "calendario", sec); err != nil {
		return err
	}
	if err := d.storeRawConfig(cfg); err != nil {
		return err
	}

	if d.Config == nil {
		d.Config = &Config{}
	}
	if d.Config.Calendar == nil {
		d.Config.Calendar = &CalendarSection{}
	}
	if d.Config.Calendar.Semesters == nil {
		d.Config.Calendar.Semesters = map[string]map[string]*CalendarDay{}
	}
	d.Config.Calendar.Semesters[SemesterKey(semKey)] = days
	return nil
}

// setSectionData replaces the datos object of one configuracion section
// in the raw document, keeping that section's sibling keys intact.
func (d *Document) setSectionData(section string, data any) error {
	cfg := d.rawConfig()
	sec := rawObject(cfg[section])
	enc, err := marshalNoEscape(data)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", section, err)
	}
	sec["datos"] = enc
	if err := foldRaw(cfg, section, sec); err != nil {
		return err
	}
	return d.storeRawConfig(cfg)
}

func (d *Document) rawConfig() map[string]json.RawMessage {
	if d.raw == nil {
		d.raw = map[string]json.RawMessage{}
	}
	if _, ok := d.raw["configuracion"]; !ok && d.Config != nil {
		if enc, err := marshalNoEscape(d.Config); err == nil {
			d.raw["configuracion"] = enc
		}
	}
	return rawObject(d.raw["configuracion"])
}

func (d *Document) storeRawConfig(cfg map[string]json.RawMessage) error {
	return foldRaw(d.raw, "configuracion", cfg)
}

// rawObject decodes raw bytes into a key map, or an empty map when the
// bytes are absent or not an object.
func rawObject(raw json.RawMessage) map[string]json.RawMessage {
	m := map[string]json.RawMessage{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &m)
	}
	return m
}

func foldRaw(parent map[string]json.RawMessage, key string, child map[string]json.RawMessage) error {
	enc, err := json.Marshal(child)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	parent[key] = enc
	return nil
}

// marshalNoEscape marshals without HTML escaping so accented names and
// comparison text survive round trips readably.
func marshalNoEscape(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Load reads, decodes and normalizes a configuration document.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	Normalize(&doc)
	return &doc, nil
}

// Save writes the document pretty-printed. The write goes through a
// temporary file in the target directory so an interrupted save cannot
// truncate the original.
func Save(doc *Document, path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".labplan-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing configuration: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
