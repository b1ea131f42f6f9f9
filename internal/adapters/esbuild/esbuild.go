// Package esbuild adapts the esbuild transform API for vendor prefixing,
// script transpiling and script minification.
package esbuild

import (
	"errors"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/zerr"
)

// transform runs a single esbuild transform and turns its messages into an error.
func transform(src []byte, opts api.TransformOptions) ([]byte, error) {
	opts.LogLevel = api.LogLevelSilent
	result := api.Transform(string(src), opts)
	if len(result.Errors) > 0 {
		return nil, messagesError(result.Errors)
	}
	return result.Code, nil
}

func messagesError(msgs []api.Message) error {
	errs := make([]error, 0, len(msgs))
	for _, msg := range msgs {
		err := zerr.New(msg.Text)
		if loc := msg.Location; loc != nil {
			err = zerr.With(err, "line", loc.Line)
			err = zerr.With(err, "column", loc.Column)
		}
		errs = append(errs, err)
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
