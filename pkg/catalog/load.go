package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/hack-pad/hackpadfs"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var compiledSchema = jsonschema.MustCompileString("dataset.schema.json", datasetSchema)

// document mirrors the on-disk dataset shape: collections are maps keyed by
// id, with the id omitted from each entry body.
type document struct {
	Meta struct {
		Tapes []string `json:"tapes"`
	} `json:"meta"`
	Effects   map[string]Effect   `json:"effects"`
	Decisions map[string]Decision `json:"decisions"`
	Consumers map[string]Consumer `json:"consumers"`
}

// Load reads and parses a dataset document from the given filesystem.
// Any read, parse, or schema failure is fatal: the engine cannot become
// queryable without a well-formed dataset.
func Load(fsys hackpadfs.FS, path string) (*Dataset, error) {
	raw, err := hackpadfs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	ds, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return ds, nil
}

// Parse validates raw JSON against the dataset schema and decodes it into
// keyed collections. Map keys become the ids of their entries.
func Parse(raw []byte) (*Dataset, error) {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := compiledSchema.Validate(loose); err != nil {
		return nil, fmt.Errorf("dataset schema: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	ds := &Dataset{
		Decisions: make(map[string]Decision, len(doc.Decisions)),
		Effects:   make(map[string]Effect, len(doc.Effects)),
		Consumers: make(map[string]Consumer, len(doc.Consumers)),
		Tapes:     doc.Meta.Tapes,
	}
	for id, e := range doc.Effects {
		e.ID = id
		ds.Effects[id] = e
	}
	for id, d := range doc.Decisions {
		d.ID = id
		ds.Decisions[id] = d
	}
	for id, c := range doc.Consumers {
		c.ID = id
		ds.Consumers[id] = c
	}
	return ds, nil
}
