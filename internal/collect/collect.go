// Package collect gathers the post-output files of executed stages into the
// analyzed document and summarizes it.
package collect

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/model"
)

// NotFound is the content recorded when a post-output file is missing.
const NotFound = "File not found"

// Collect reads `<post.directory>/<post.output>` for every stage that declares
// a post action. Relative paths are resolved against baseDir. A missing file
// is recorded as failed rather than returned as an error.
func Collect(ctx context.Context, baseDir string, stages map[string]model.ResolvedStage) map[string]model.Analysis {
	logger := ctxlog.FromContext(ctx)

	ids := make([]string, 0, len(stages))
	for id := range stages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[string]model.Analysis)
	for _, id := range ids {
		post := stages[id].Post
		if len(post) == 0 {
			continue
		}
		filename := post.Directory() + "/" + post.Output()
		path := filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, filename)
		}

		analysis := read(path)
		analysis.Filename = filename
		out[id] = analysis

		if analysis.Status == model.AnalysisFailed {
			logger.Warn("Post output unavailable.", "node", id, "filename", filename, "reason", analysis.Content)
		} else {
			logger.Debug("Collected post output.", "node", id, "filename", filename, "bytes", len(analysis.Content))
		}
	}
	return out
}

func read(path string) model.Analysis {
	info, err := os.Stat(path)
	if err == nil && !info.Mode().IsRegular() {
		err = fs.ErrNotExist
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Analysis{Status: model.AnalysisFailed, Content: NotFound}
		}
		return model.Analysis{Status: model.AnalysisFailed, Content: err.Error()}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return model.Analysis{Status: model.AnalysisFailed, Content: err.Error()}
	}
	return model.Analysis{Status: model.AnalysisUnverified, Content: string(content)}
}
