package ioingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type storedFile struct {
	fromZip bool
	parent  sql.NullInt64
}

// verifyZipHierarchy walks parent links of files loaded by the run in
// the store. Every chain must end at a top-level file within the
// maximum archive depth of the input.
func (i *ingester) verifyZipHierarchy(ctx context.Context) error {
	rows, err := i.operator.DB().QueryContext(ctx,
		"SELECT file_id, is_from_zip_file, parent_zip_file_id FROM files")
	if err != nil {
		return StoreError("files", err)
	}
	defer rows.Close()

	stored := make(map[int64]storedFile)
	for rows.Next() {
		var id int64
		var sf storedFile
		if err = rows.Scan(&id, &sf.fromZip, &sf.parent); err != nil {
			return StoreError("files", err)
		}
		stored[id] = sf
	}
	if err = rows.Err(); err != nil {
		return StoreError("files", err)
	}

	maxDepth := i.sum.MaxZipDepth
	for id := range i.fileTypes {
		cur := id
		for depth := 0; ; depth++ {
			sf, ok := stored[cur]
			if !ok {
				return ZipHierarchyError(id,
					fmt.Sprintf("file %d is missing", cur))
			}
			if !sf.parent.Valid {
				break
			}
			if !sf.fromZip {
				return ZipHierarchyError(id,
					fmt.Sprintf("file %d has a parent but is not from archive", cur))
			}
			if depth >= maxDepth {
				return ZipHierarchyError(id,
					fmt.Sprintf("chain is longer than %d", maxDepth))
			}
			cur = sf.parent.Int64
		}
	}

	slog.Info("Verified archive hierarchy",
		"files", len(i.fileTypes), "max_depth", maxDepth)
	return nil
}
