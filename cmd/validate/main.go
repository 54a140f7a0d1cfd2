package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/age-of-tension/pkg/state"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

func main() {
	file := flag.String("file", "world_state.json", "save file to validate")
	export := flag.String("export", "", "print the migrated state as yaml or json")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", *file, err)
		os.Exit(1)
	}

	fmt.Printf("Validating %s...\n", *file)
	v := NewSaveValidator(world.DefaultRegistry())
	ws, err := v.Validate(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	v.Report(os.Stdout)

	if *export != "" {
		if err := exportState(os.Stdout, ws, *export); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	}

	if len(v.errors) > 0 {
		os.Exit(1)
	}
	fmt.Println("Save file is valid!")
}

// SaveValidator checks a world state save file against the registry.
type SaveValidator struct {
	registry *world.Registry
	migrated []string
	errors   []string
	summary  string
}

func NewSaveValidator(reg *world.Registry) *SaveValidator {
	return &SaveValidator{registry: reg}
}

// Validate decodes data the same way the server does and records every
// problem found. The error is only for files that cannot be decoded.
func (v *SaveValidator) Validate(data []byte) (*state.WorldState, error) {
	v.migrated, v.errors, v.summary = nil, nil, ""

	ws, migrated, err := state.DecodeWorldState(data, func() *state.WorldState {
		return state.NewWorldState(v.registry, nil)
	})
	if err != nil {
		return nil, err
	}
	v.migrated = migrated

	for _, code := range sortedKeys(ws.Military) {
		f := ws.Military[code]
		if f.Troops < 0 || f.Navy < 0 || f.Airforce < 0 {
			v.errorf("military.%s: negative forces %d/%d/%d", code, f.Troops, f.Navy, f.Airforce)
		}
		if _, ok := ws.Ownership[code]; !ok {
			v.errorf("military.%s: no ownership entry", code)
		}
	}
	for _, code := range sortedKeys(ws.Ownership) {
		if !v.registry.Knows(code) {
			v.errorf("ownership.%s: unknown country code", code)
		}
	}
	for _, name := range []string{
		state.CounterTurnCount, state.CounterYear, state.CounterDefcon,
		state.CounterResources, state.CounterInfluence, state.CounterOil, state.CounterTech,
	} {
		if n, ok := ws.Counter(name); ok && n < 0 {
			v.errorf("%s: negative value %d", name, n)
		}
	}

	v.summary = state.FormatMilitaryByFaction(state.MilitaryByFaction(ws, v.registry.KnownCodes()))
	return ws, nil
}

func (v *SaveValidator) errorf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

// Report prints backfilled keys, problems and the faction summary.
func (v *SaveValidator) Report(w io.Writer) {
	for _, key := range v.migrated {
		fmt.Fprintf(w, "Backfilled missing key: %s\n", key)
	}
	for _, e := range v.errors {
		fmt.Fprintf(w, "ERROR: %s\n", e)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, v.summary)
}

// exportState writes ws in the requested format. YAML goes through the JSON
// form so key names and unmodeled keys match the save file.
func exportState(w io.Writer, ws *state.WorldState, format string) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		out, err := state.EncodeWorldState(ws)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q: want yaml or json", format)
}

func sortedKeys[V any](m map[world.CountryCode]V) []world.CountryCode {
	keys := make([]world.CountryCode, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
