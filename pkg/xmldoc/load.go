package xmldoc

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// docFile is the root of a compiler-generated XML documentation file.
type docFile struct {
	XMLName xml.Name   `xml:"doc"`
	Members []*element `xml:"members>member"`
}

// ReadMembers decodes the member nodes of one documentation file.
func ReadMembers(r io.Reader) ([]Node, error) {
	var doc docFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Errorf("decode documentation: %w", err)
	}
	members := make([]Node, len(doc.Members))
	for i, m := range doc.Members {
		members[i] = m
	}
	return members, nil
}

// Load builds an Index from a single documentation file.
func Load(r io.Reader) (*Index, error) {
	members, err := ReadMembers(r)
	if err != nil {
		return nil, err
	}
	return NewIndex(members), nil
}

// LoadString is Load over an in-memory document.
func LoadString(doc string) (*Index, error) {
	return Load(strings.NewReader(doc))
}

// LoadFiles builds one Index from several documentation files. Members in
// later files replace members with the same identifier in earlier ones.
func LoadFiles(paths ...string) (*Index, error) {
	var all []Node
	for _, path := range paths {
		members, err := readFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, members...)
	}
	return NewIndex(all), nil
}

func readFile(path string) ([]Node, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.Errorf("open documentation: %w", err)
	}
	defer func() { _ = f.Close() }()

	members, err := ReadMembers(f)
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}
	return members, nil
}
