package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/texforge/backend/internal/present"
	"github.com/texforge/backend/internal/session"
	"github.com/texforge/backend/internal/submit"
)

// outputOptions control what happens with a successful conversion.
type outputOptions struct {
	dir      string
	overleaf bool
	print    bool
}

// submitBatch sends the store's files, shows the outcome and writes the
// artifact. A failed conversion is returned as an error after being shown.
func submitBatch(ctx context.Context, w io.Writer, store *session.Store, sub *submit.Submitter, opts outputOptions, logger *slog.Logger) error {
	snapshot := store.Snapshot()
	fmt.Fprintln(w, present.RenderSession(snapshot))

	result, err := sub.Run(ctx, store)
	if err != nil {
		return err
	}

	snapshot = store.Snapshot()
	fmt.Fprintln(w, present.RenderSession(snapshot))
	if !result.Success {
		return errors.New(result.Error)
	}

	if opts.print {
		fmt.Fprintln(w, result.ArtifactText)
	}

	name := present.ArtifactName(snapshot.Files)
	path, err := present.WriteArtifact(opts.dir, name, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)

	if opts.overleaf {
		page, err := present.OpenInOverleaf(ctx, name, result, present.OpenBrowser)
		if err != nil {
			logger.Warn("overleaf handoff failed", "page", page, "error", err)
			fmt.Fprintf(w, "Could not open a browser; open %s manually\n", page)
		}
	}
	return nil
}
