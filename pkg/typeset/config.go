package typeset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/vito/generics/pkg/ioctx"
)

// ConfigName is the file FindConfig looks for.
const ConfigName = "generics.toml"

// File is the TOML form of a universe of declarations.
type File struct {
	Types []TypeDecl `toml:"types"`
}

// TypeDecl declares one type. Generic information comes from Signature, in
// class file signature syntax; Super and Interfaces name the raw super types
// and are used when there is no signature or it cannot be read.
type TypeDecl struct {
	Name      string `toml:"name"`
	Kind      string `toml:"kind,omitempty"`
	Signature string `toml:"signature,omitempty"`

	Super      string   `toml:"super,omitempty"`
	Interfaces []string `toml:"interfaces,omitempty"`

	// Declaring names the type this one is a member of.
	Declaring string `toml:"declaring,omitempty"`
	Static    bool   `toml:"static,omitempty"`

	// Targets lists where an annotation type applies, e.g. "type-use".
	Targets []string `toml:"targets,omitempty"`

	// Annotations lists the annotation types present on the declaration.
	Annotations []string `toml:"annotations,omitempty"`

	// VariableAnnotations maps a type variable to the annotation types on
	// its declaration.
	VariableAnnotations map[string][]string `toml:"variable_annotations,omitempty"`

	Fields  []FieldDecl  `toml:"fields,omitempty"`
	Methods []MethodDecl `toml:"methods,omitempty"`
}

type FieldDecl struct {
	Name      string `toml:"name"`
	Signature string `toml:"signature"`

	// Type is the raw field type, used when the signature cannot be read.
	Type string `toml:"type,omitempty"`

	// TypeAnnotations maps a type path to the annotation types found on
	// that part of the field type. The empty path is the field type
	// itself.
	TypeAnnotations map[string][]string `toml:"type_annotations,omitempty"`
}

type MethodDecl struct {
	Name      string `toml:"name"`
	Signature string `toml:"signature"`

	// Returns is the raw return type, used when the signature cannot be
	// read.
	Returns string `toml:"returns,omitempty"`
}

// Load reads a universe from a TOML file.
func Load(ctx context.Context, path string) (*Universe, error) {
	var file File
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	warnUndecoded(ctx, md)
	return Build(ctx, file)
}

// Decode reads a universe from TOML source.
func Decode(ctx context.Context, data string) (*Universe, error) {
	var file File
	md, err := toml.Decode(data, &file)
	if err != nil {
		return nil, fmt.Errorf("parsing universe: %w", err)
	}
	warnUndecoded(ctx, md)
	return Build(ctx, file)
}

func warnUndecoded(ctx context.Context, md toml.MetaData) {
	for _, key := range md.Undecoded() {
		ioctx.LoggerFromContext(ctx).Warn("unknown key", "key", key.String())
	}
}

// FindConfig searches for generics.toml starting from dir and walking up to
// parent directories, stopping at a .git boundary. It returns "" if there is
// none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
