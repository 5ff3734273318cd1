package frontmatter

import (
	"bytes"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping indicates a block that parses as YAML but not as key/value pairs.
var ErrNotMapping = errors.New("frontmatter is not a mapping")

// Field is one `key: value` line of a rendered block. Raw values (numbers)
// are written verbatim; everything else goes through FormatScalar.
type Field struct {
	Key   string
	Value string
	Raw   bool
}

// Render writes fields as a delimited block, in the given order, using the
// newline style of the target document. The output ends with the closing
// delimiter line.
func Render(fields []Field, style Style) []byte {
	nl := style.NewlineOrDefault()

	var buf bytes.Buffer
	buf.WriteString(Delimiter)
	buf.WriteString(nl)
	for _, f := range fields {
		buf.WriteString(f.Key)
		buf.WriteString(": ")
		if f.Raw {
			buf.WriteString(f.Value)
		} else {
			buf.WriteString(FormatScalar(f.Value))
		}
		buf.WriteString(nl)
	}
	buf.WriteString(Delimiter)
	buf.WriteString(nl)
	return buf.Bytes()
}

// FormatScalar returns s unchanged when YAML reads it back as the same plain
// string, and the YAML quoted form otherwise (e.g. "Options: Viewer" or "null").
// Invalid UTF-8 is replaced with U+FFFD so the value stays literal text.
func FormatScalar(s string) string {
	if s == "" {
		return `""`
	}
	s = strings.ToValidUTF8(s, "\uFFFD")
	if strings.ContainsAny(s, "\r\n") {
		s = strings.Join(strings.Fields(s), " ")
	}
	out, err := yaml.Marshal(s)
	if err != nil {
		return s
	}
	return strings.TrimSuffix(string(out), "\n")
}

// binaryTag marks base64 encoded values; the docs renderer shows them verbatim.
const binaryTag = "!!binary"

// Keys returns the top-level mapping keys of a raw block in document order.
func Keys(block []byte) ([]string, error) {
	pairs, err := mappingPairs(block)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		keys = append(keys, p[0].Value)
	}
	return keys, nil
}

// BinaryKeys returns the top-level keys whose values are tagged !!binary.
func BinaryKeys(block []byte) ([]string, error) {
	pairs, err := mappingPairs(block)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, p := range pairs {
		if p[1].Tag == binaryTag {
			keys = append(keys, p[0].Value)
		}
	}
	return keys, nil
}

func mappingPairs(block []byte) ([][2]*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	pairs := make([][2]*yaml.Node, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{root.Content[i], root.Content[i+1]})
	}
	return pairs, nil
}
