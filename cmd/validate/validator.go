package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/jwebster45206/musilife/pkg/conditionals"
	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/state"
	"gopkg.in/yaml.v3"
)

type ContentValidator struct {
	errors []string
}

// validatePath checks a single collection file, or every collection file in a directory.
func (v *ContentValidator) validatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return v.validateFile(path)
	}

	var catalog content.Catalog
	found := 0
	for _, collection := range content.Collections {
		file, ok := findCollection(path, collection)
		if !ok {
			continue
		}
		found++
		if err := v.validateFile(file); err != nil {
			return err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", file, err)
		}
		if err := catalog.Decode(collection, data, content.FormatFromPath(file)); err != nil {
			return fmt.Errorf("file %s: %w", file, err)
		}
	}
	if found == 0 {
		return fmt.Errorf("no content files in %s", path)
	}

	// Ids are unique per collection, so the whole catalog is checked together.
	if err := catalog.Validate(); err != nil {
		return err
	}
	fmt.Printf("%s: %d questions, %d opportunities, %d events\n",
		path, len(catalog.Questions), len(catalog.Opportunities), len(catalog.Events))
	return nil
}

func findCollection(dir, collection string) (string, bool) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		file := filepath.Join(dir, collection+ext)
		if _, err := os.Stat(file); err == nil {
			return file, true
		} else if !errors.Is(err, fs.ErrNotExist) {
			return file, true
		}
	}
	return "", false
}

func (v *ContentValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	collection := strings.TrimSuffix(baseName, ext)
	if !slices.Contains([]string{".json", ".yaml", ".yml"}, ext) {
		return fmt.Errorf("content file must have .json, .yaml or .yml extension: %s", baseName)
	}
	if !slices.Contains(content.Collections, collection) {
		return fmt.Errorf("content file '%s' must be named after a collection (%s)", baseName, strings.Join(content.Collections, ", "))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	format := content.FormatFromPath(filename)
	if err := strictDecode(collection, data, format); err != nil {
		return fmt.Errorf("file %s failed strict unmarshaling: %w", filename, err)
	}

	var catalog content.Catalog
	if err := catalog.Decode(collection, data, format); err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	v.validateCatalog(&catalog)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

// strictDecode rejects fields the content types don't know about.
func strictDecode(collection string, data []byte, format content.Format) error {
	switch collection {
	case content.CollectionQuestions:
		return strictDecodeList[content.Question](collection, data, format)
	case content.CollectionOpportunities:
		return strictDecodeList[content.Opportunity](collection, data, format)
	default:
		return strictDecodeList[content.Event](collection, data, format)
	}
}

func strictDecodeList[T any](collection string, data []byte, format content.Format) error {
	var list []T
	if format == content.FormatYAML {
		var wrapped map[string][]T
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("-")) {
			return dec.Decode(&list)
		}
		return dec.Decode(&wrapped)
	}

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return err
		}
		for key := range wrapped {
			if key != collection {
				return fmt.Errorf("unexpected top-level key %q", key)
			}
		}
		trimmed = wrapped[collection]
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	return dec.Decode(&list)
}

func (v *ContentValidator) validateCatalog(c *content.Catalog) {
	for _, q := range c.Questions {
		ctx := "question " + q.ID
		v.validateIDFormat(ctx, q.ID)
		v.validateRequires(ctx, q.Requires)
		v.validateOptions(ctx, q.Options)
	}

	for _, o := range c.Opportunities {
		ctx := "opportunity " + o.ID
		v.validateIDFormat(ctx, o.ID)
		v.validateRequires(ctx, o.Requires)
		for i, ch := range o.Choices {
			choiceCtx := fmt.Sprintf("%s choice %d", ctx, i)
			for name := range ch.Formula.Weights {
				if !state.IsStat(name) {
					v.addError(fmt.Sprintf("%s formula uses unknown stat '%s'", choiceCtx, name))
				}
			}
			for j, out := range ch.Outcomes {
				v.validateEffects(fmt.Sprintf("%s outcome %d", choiceCtx, j), out.Effects)
			}
		}
	}

	for _, e := range c.Events {
		ctx := "event " + e.ID
		v.validateIDFormat(ctx, e.ID)
		v.validateRequires(ctx, e.Requires)
		v.validateOptions(ctx, e.Options)
	}
}

func (v *ContentValidator) validateOptions(ctx string, options []content.Option) {
	for i, opt := range options {
		optCtx := fmt.Sprintf("%s option %d", ctx, i)
		v.validateRequires(optCtx, opt.Requires)
		v.validateEffects(optCtx, opt.Effects)
		for _, flag := range opt.Unlocks {
			v.validateIDFormat(optCtx+" unlock", flag)
		}
	}
}

func (v *ContentValidator) validateRequires(ctx string, req *conditionals.Requires) {
	if req == nil {
		return
	}
	if req.IsEmpty() {
		v.addError(fmt.Sprintf("%s has empty 'requires' clause - no conditions specified", ctx))
		return
	}
	for name := range req.MinStats {
		if !state.IsStat(name) && !state.IsResource(name) {
			v.addError(fmt.Sprintf("%s requires unknown stat '%s'", ctx, name))
		}
	}
	for _, flag := range req.Flags {
		v.validateIDFormat(ctx+" required flag", flag)
	}
	for _, flag := range req.ExcludeFlags {
		v.validateIDFormat(ctx+" excluded flag", flag)
	}
}

func (v *ContentValidator) validateEffects(ctx string, e content.Effects) {
	for _, flag := range e.Flags {
		v.validateIDFormat(ctx+" flag", flag)
	}
}

func (v *ContentValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *ContentValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
