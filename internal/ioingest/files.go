package ioingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/cheggaaa/pb/v3"
	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
)

// fileRecord is a parsed row of files.csv.
type fileRecord struct {
	ref         recordRef
	key         datasetKey
	name        string
	fileType    string
	size        int64
	md5         string
	url         string
	swName      string
	swVersion   string
	fromZip     bool
	parent      string
	depth       int
	depthErr    error
	parseErr    error
	parentIndex int
}

// memberKey finds records of the same dataset by file name.
type memberKey struct {
	key  datasetKey
	name string
}

// loadFiles inserts files so that every archive is inserted before
// its members.
func (i *ingester) loadFiles(ctx context.Context, t *tables) error {
	recs := parseFiles(t.files)
	orderByDepth(recs)

	bar := pb.Full.Start(len(recs))
	bar.Set("prefix", "Files: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		bar.Increment()

		err := i.loadFile(ctx, rec)
		if err != nil {
			if err = i.skip(err); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *ingester) loadFile(ctx context.Context, rec *fileRecord) error {
	if rec.parseErr != nil {
		return rec.parseErr
	}
	if rec.depthErr != nil {
		return rec.depthErr
	}

	datasetID, ok := i.datasets[rec.key]
	if !ok {
		return ReferentialError(rec.ref, "dataset "+rec.key.String()+" is not loaded")
	}

	var parentID sql.NullInt64
	if rec.fromZip {
		ids := i.files[fileKey{datasetID: datasetID, name: rec.parent}]
		if len(ids) != 1 {
			return ReferentialError(rec.ref,
				fmt.Sprintf("parent archive %q is not loaded", rec.parent))
		}
		parentID = sql.NullInt64{Int64: ids[0], Valid: true}
	}

	fileTypeID, err := i.res.Resolve(ctx, catalog.FileType, rec.fileType)
	if err != nil {
		return resolveErr(rec.ref, "file type", err)
	}

	softwareID, err := i.res.ResolveSoftware(ctx, rec.swName, rec.swVersion)
	if err != nil {
		return err
	}

	var fileID int64
	err = i.withTx(ctx, rec.ref, func(tx *sql.Tx) error {
		q := `INSERT INTO files (
			dataset_id, name, file_type_id, size_in_bytes, md5, url,
			software_id, is_from_zip_file, parent_zip_file_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING file_id`
		return tx.QueryRowContext(ctx, i.operator.Rebind(q),
			datasetID, rec.name, fileTypeID, rec.size, rec.md5, rec.url,
			softwareID, rec.fromZip, parentID,
		).Scan(&fileID)
	})
	if err != nil {
		return err
	}

	fk := fileKey{datasetID: datasetID, name: rec.name}
	i.files[fk] = append(i.files[fk], fileID)
	i.fileTypes[fileID] = catalog.Normalize(catalog.FileType, rec.fileType)
	i.sum.Inserted["files"]++
	i.sum.MaxZipDepth = max(i.sum.MaxZipDepth, rec.depth)
	return nil
}

func parseFiles(tbl *iotable.Table) []*fileRecord {
	res := make([]*fileRecord, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		res = append(res, parseFile(row))
	}
	return res
}

func parseFile(row iotable.Row) *fileRecord {
	key := datasetKey{
		origin:     iotable.Text(row.Get("dataset_origin")),
		idInOrigin: iotable.Text(row.Get("id_in_origin")),
	}
	name := iotable.Text(row.Get("name"))
	rec := &fileRecord{
		ref: recordRef{
			table: "files",
			line:  row.Line,
			key:   key.String() + ":" + name,
		},
		key:         key,
		name:        name,
		fileType:    row.Get("file_type"),
		md5:         iotable.Text(row.Get("md5")),
		url:         iotable.Text(row.Get("url")),
		swName:      row.Get("software_name"),
		swVersion:   row.Get("software_version"),
		parent:      iotable.Text(row.Get("parent_zip_file")),
		parentIndex: -1,
	}

	if row.Err != nil {
		rec.parseErr = MalformedRecordError(rec.ref, row.Err)
		return rec
	}
	if name == "" {
		rec.parseErr = MalformedRecordError(rec.ref, errors.New("empty file name"))
		return rec
	}

	var err error
	var errs []error
	rec.size, err = iotable.Int(row.Get("size_in_bytes"))
	errs = append(errs, err)
	rec.fromZip, err = iotable.Bool(row.Get("is_from_zip_file"))
	errs = append(errs, err)
	if err = errors.Join(errs...); err != nil {
		rec.parseErr = MalformedRecordError(rec.ref, err)
		return rec
	}

	if rec.parent != "" {
		rec.fromZip = true
	}
	if rec.fromZip && rec.parent == "" {
		rec.parseErr = ReferentialError(rec.ref, "file from archive without parent name")
	}
	return rec
}

// orderByDepth computes the archive depth of every record and sorts
// records so that containers come first. A parent that is absent,
// ambiguous or part of a cycle sets depthErr on the member.
func orderByDepth(recs []*fileRecord) {
	members := make(map[memberKey][]int)
	for n, r := range recs {
		if r.parseErr != nil {
			continue
		}
		k := memberKey{key: r.key, name: r.name}
		members[k] = append(members[k], n)
	}

	for _, r := range recs {
		if r.parseErr != nil || !r.fromZip {
			continue
		}
		idx := members[memberKey{key: r.key, name: r.parent}]
		switch len(idx) {
		case 0:
			r.depthErr = ReferentialError(r.ref,
				fmt.Sprintf("parent archive %q is absent", r.parent))
		case 1:
			r.parentIndex = idx[0]
		default:
			r.depthErr = ReferentialError(r.ref,
				fmt.Sprintf("parent archive %q is ambiguous", r.parent))
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(recs))

	var visit func(n int) (int, error)
	visit = func(n int) (int, error) {
		r := recs[n]
		switch state[n] {
		case done:
			return r.depth, r.depthErr
		case visiting:
			r.depthErr = ReferentialError(r.ref, "archive hierarchy has a cycle")
			return 0, r.depthErr
		}
		state[n] = visiting
		defer func() { state[n] = done }()

		if r.parseErr != nil {
			return 0, r.parseErr
		}
		if r.depthErr != nil || r.parentIndex < 0 {
			return 0, r.depthErr
		}

		d, err := visit(r.parentIndex)
		if err != nil {
			if r.depthErr == nil {
				r.depthErr = ReferentialError(r.ref,
					fmt.Sprintf("parent archive %q cannot be loaded", r.parent))
			}
			return 0, r.depthErr
		}
		r.depth = d + 1
		return r.depth, nil
	}

	for n := range recs {
		_, _ = visit(n)
	}

	slices.SortStableFunc(recs, func(a, b *fileRecord) int {
		return a.depth - b.depth
	})
}
