// Package schema applies the embedded schema files modules register at
// boot. Statements are idempotent (CREATE ... IF NOT EXISTS) so the
// runner can execute on every start without version bookkeeping.
package schema

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Apply executes every .sql file in each filesystem, in lexical order
// within a filesystem and registration order across them.
func Apply(ctx context.Context, pool *pgxpool.Pool, log *logrus.Logger, schemas []*embed.FS) error {
	for _, schemaFS := range schemas {
		files, err := sqlFiles(schemaFS)
		if err != nil {
			return errors.Wrap(err, "failed to list schema files")
		}
		for _, file := range files {
			content, err := schemaFS.ReadFile(file)
			if err != nil {
				return errors.Wrapf(err, "failed to read schema file %s", file)
			}
			if _, err := pool.Exec(ctx, string(content)); err != nil {
				return errors.Wrapf(err, "failed to apply schema file %s", file)
			}
			log.WithField("file", file).Info("applied schema")
		}
	}
	return nil
}

func sqlFiles(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && len(path) > 4 && path[len(path)-4:] == ".sql" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
