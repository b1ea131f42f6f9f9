// Package css groups CSS media queries.
package css

import (
	"bytes"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MediaQueryGrouper = (*Grouper)(nil)

// ErrUnterminatedMedia is returned when a top-level @media block is never closed.
var ErrUnterminatedMedia = zerr.New("unterminated @media block")

// Grouper moves top-level @media blocks to the end of a stylesheet, merging
// blocks with the same condition in the order they first appear.
type Grouper struct{}

// NewGrouper creates a Grouper.
func NewGrouper() *Grouper {
	return &Grouper{}
}

type mediaGroup struct {
	condition string
	body      bytes.Buffer
}

// GroupMediaQueries implements ports.MediaQueryGrouper.
func (g *Grouper) GroupMediaQueries(src []byte) ([]byte, error) {
	lexer := csslex.NewLexer(parse.NewInputBytes(src))

	var rest bytes.Buffer
	var groups []*mediaGroup
	index := make(map[string]*mediaGroup)

	depth := 0
	skipSpace := false
	for {
		tt, data := lexer.Next()
		if tt == csslex.ErrorToken {
			if err := lexer.Err(); err != io.EOF {
				return nil, zerr.Wrap(err, "failed to tokenize stylesheet")
			}
			break
		}
		if skipSpace {
			skipSpace = false
			if tt == csslex.WhitespaceToken {
				continue
			}
		}

		if depth == 0 && tt == csslex.AtKeywordToken && strings.EqualFold(string(data), "@media") {
			condition, body, err := readMedia(lexer)
			if err != nil {
				return nil, err
			}
			group, ok := index[condition]
			if !ok {
				group = &mediaGroup{condition: condition}
				index[condition] = group
				groups = append(groups, group)
			}
			group.body.Write(body)
			skipSpace = true
			continue
		}

		switch tt {
		case csslex.LeftBraceToken:
			depth++
		case csslex.RightBraceToken:
			depth--
		}
		rest.Write(data)
	}

	if len(groups) == 0 {
		return src, nil
	}

	var out bytes.Buffer
	out.Write(bytes.TrimRight(rest.Bytes(), " \t\r\n"))
	for _, group := range groups {
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString("@media " + group.condition + " {")
		out.Write(group.body.Bytes())
		out.WriteString("}")
	}
	out.WriteString("\n")
	return out.Bytes(), nil
}

// readMedia consumes the condition and block of an @media rule whose keyword
// has just been read. The condition is returned with its whitespace collapsed,
// the body without its outer braces.
func readMedia(lexer *csslex.Lexer) (condition string, body []byte, err error) {
	var prelude strings.Builder
	for {
		tt, data := lexer.Next()
		if tt == csslex.ErrorToken {
			return "", nil, zerr.With(ErrUnterminatedMedia, "condition", strings.TrimSpace(prelude.String()))
		}
		if tt == csslex.LeftBraceToken {
			break
		}
		prelude.Write(data)
	}
	condition = strings.Join(strings.Fields(prelude.String()), " ")

	var buf bytes.Buffer
	depth := 1
	for {
		tt, data := lexer.Next()
		switch tt {
		case csslex.ErrorToken:
			return "", nil, zerr.With(ErrUnterminatedMedia, "condition", condition)
		case csslex.LeftBraceToken:
			depth++
		case csslex.RightBraceToken:
			depth--
			if depth == 0 {
				return condition, buf.Bytes(), nil
			}
		}
		buf.Write(data)
	}
}
