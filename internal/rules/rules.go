// Package rules loads league rules files written in CUE.
//
// A rules file has a league block and an optional game block:
//
//	league: {
//		innings: 7
//		tieBreaker: type: "INTERNATIONAL_TIE_BREAKER"
//	}
//	game: allowTieGames: true
//
// Both are checked against an embedded schema that fills league defaults
// (nine innings, 4 balls, 3 strikes, 3 outs, extra innings, no ties, no
// tie-breaker). Effective merges the override with game.ResolveRules.
package rules

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/scorebook/internal/game"
)

//go:embed schema.cue
var schemaSource []byte

// File is a decoded rules file.
type File struct {
	League   game.Rules
	Override *game.Override
}

// Effective resolves the league settings and override into the rules for
// one game.
func (f *File) Effective() game.Rules {
	return game.ResolveRules(f.League, f.Override)
}

// LoadError is a rules file error, with the CUE position when known.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and compiles the rules file at path.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Field: "file", Message: err.Error()}
	}
	return Compile(path, src)
}

// Compile checks src against the schema and decodes it. name is used in
// error positions.
func Compile(name string, src []byte) (*File, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.LookupPath(cue.ParsePath("league")).Exists() {
		return nil, &LoadError{Field: "league", Message: "league is required", Pos: v.Pos()}
	}

	v = schema.LookupPath(cue.ParsePath("#File")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	f := &File{}
	if err := v.LookupPath(cue.ParsePath("league")).Decode(&f.League); err != nil {
		return nil, formatCUEError(err)
	}
	if g := v.LookupPath(cue.ParsePath("game")); g.Exists() {
		f.Override = &game.Override{}
		if err := g.Decode(f.Override); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if err := f.League.Validate(); err != nil {
		return nil, &LoadError{Field: "league", Message: err.Error()}
	}
	if err := f.Effective().Validate(); err != nil {
		return nil, &LoadError{Field: "game", Message: err.Error()}
	}
	return f, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	var pos token.Pos
	if positions := errors.Positions(first); len(positions) > 0 {
		pos = positions[0]
	}
	return &LoadError{Field: "cue", Message: first.Error(), Pos: pos}
}
