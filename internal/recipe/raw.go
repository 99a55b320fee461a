package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RawRecipe is one recipe object as it appears in the source document.
type RawRecipe struct {
	Name        string         `json:"name"`
	CookTime    string         `json:"cookTime"`
	PrepTime    string         `json:"prepTime"`
	RecipeYield Yield          `json:"recipeYield"`
	Image       string         `json:"image"`
	Description *string        `json:"description,omitempty"`
	Ingredients IngredientList `json:"ingredients,omitempty"`

	// Err is set when the entry could not be decoded. Only Name survives,
	// and only when it was a string.
	Err error `json:"-"`
}

// Yield is the opaque recipeYield value. Strings pass through, numbers keep
// their literal text and null becomes empty.
type Yield string

// UnmarshalJSON accepts strings, numbers, null and arrays of strings.
func (y *Yield) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Yield(s)
	case '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("recipeYield: %w", err)
		}
		*y = Yield(strings.Join(parts, ", "))
	case '{', 't', 'f':
		return fmt.Errorf("recipeYield: unsupported value %s", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("recipeYield: %w", err)
		}
		*y = Yield(n.String())
	}
	return nil
}

// IngredientList holds ingredients in source order. Some dataset exports store
// them as one newline separated string; those are split into lines. A nil list
// means the field was absent.
type IngredientList []string

// UnmarshalJSON accepts an array of strings or a single newline separated string.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		lines := IngredientList{}
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		*l = lines
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("ingredients: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

// DocumentError reports a document that could not be decoded. Index is the
// zero-based entry that failed, or -1 when the document itself is malformed.
type DocumentError struct {
	Index int
	Err   error
}

func (e *DocumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decode recipe document: %v", e.Err)
	}
	return fmt.Sprintf("decode recipe %d: %v", e.Index, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// ErrorKind classifies document failures as validation problems.
func (e *DocumentError) ErrorKind() string { return "validation" }

// ParseDocument decodes a JSON array of recipe objects. Newline delimited
// objects (one recipe per line, as in the openrecipes dumps) are accepted too.
// Entries keep source order. An entry whose fields have the wrong shape is
// returned with Err set; only malformed JSON fails the whole document.
func ParseDocument(r io.Reader) ([]RawRecipe, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	first, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, &DocumentError{Index: -1, Err: errors.New("empty document")}
	}
	if err != nil {
		return nil, &DocumentError{Index: -1, Err: err}
	}

	delim, ok := first.(json.Delim)
	if !ok {
		return nil, &DocumentError{Index: -1, Err: fmt.Errorf("unexpected token %v", first)}
	}
	switch delim {
	case '[':
		return decodeArray(dec)
	case '{':
		return decodeStream(dec)
	default:
		return nil, &DocumentError{Index: -1, Err: fmt.Errorf("unexpected delimiter %v", delim)}
	}
}

// Malformed counts entries that carry a decode error.
func Malformed(raws []RawRecipe) int {
	n := 0
	for _, raw := range raws {
		if raw.Err != nil {
			n++
		}
	}
	return n
}

func decodeArray(dec *json.Decoder) ([]RawRecipe, error) {
	var out []RawRecipe
	for dec.More() {
		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			return nil, &DocumentError{Index: len(out), Err: err}
		}
		out = append(out, decodeEntry(len(out), msg))
	}
	if _, err := dec.Token(); err != nil {
		return nil, &DocumentError{Index: -1, Err: err}
	}
	return out, nil
}

// decodeStream handles newline delimited objects. The opening brace of the
// first object has already been consumed, so that object is rebuilt from the
// remaining tokens before the rest are decoded normally.
func decodeStream(dec *json.Decoder) ([]RawRecipe, error) {
	firstObject, err := readObjectBody(dec)
	if err != nil {
		return nil, &DocumentError{Index: 0, Err: err}
	}
	out := []RawRecipe{decodeEntry(0, firstObject)}
	for {
		var msg json.RawMessage
		err := dec.Decode(&msg)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, &DocumentError{Index: len(out), Err: err}
		}
		out = append(out, decodeEntry(len(out), msg))
	}
}

func decodeEntry(index int, msg json.RawMessage) RawRecipe {
	var raw RawRecipe
	err := json.Unmarshal(msg, &raw)
	if err == nil {
		return raw
	}
	var named struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(msg, &named)
	return RawRecipe{Name: named.Name, Err: &DocumentError{Index: index, Err: err}}
}

func readObjectBody(dec *json.Decoder) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyToken)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}
