package ioingest

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cheggaaa/pb/v3"
	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
)

// datasetRecord is a parsed row of datasets.csv.
type datasetRecord struct {
	ref              recordRef
	key              datasetKey
	doi              string
	dateCreated      any
	dateLastModified any
	dateLastCrawled  any
	fileNumber       int64
	downloadNumber   int64
	viewNumber       int64
	license          string
	url              string
	title            string
	description      string
	authors          []string
	keywords         []string
}

func (i *ingester) loadDatasets(ctx context.Context, t *tables) error {
	bar := pb.Full.Start(len(t.datasets.Rows))
	bar.Set("prefix", "Datasets: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for _, row := range t.datasets.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		bar.Increment()

		err := i.loadDataset(ctx, row)
		if err != nil {
			if err = i.skip(err); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *ingester) loadDataset(ctx context.Context, row iotable.Row) error {
	rec, err := parseDataset(row)
	if err != nil {
		return err
	}

	if _, ok := i.datasets[rec.key]; ok {
		return DuplicateKeyError(rec.ref, "dataset appears twice in snapshot")
	}

	originID, err := i.res.Resolve(ctx, catalog.Origin, rec.key.origin)
	if err != nil {
		return resolveErr(rec.ref, "dataset origin", err)
	}

	authorIDs := make([]int64, 0, len(rec.authors))
	for _, a := range rec.authors {
		id, err := i.res.ResolveAuthor(ctx, a, "")
		if err != nil {
			return resolveErr(rec.ref, "author", err)
		}
		authorIDs = append(authorIDs, id)
	}

	keywordIDs := make([]int64, 0, len(rec.keywords))
	for _, k := range rec.keywords {
		id, err := i.res.Resolve(ctx, catalog.Keyword, k)
		if err != nil {
			return resolveErr(rec.ref, "keyword", err)
		}
		keywordIDs = append(keywordIDs, id)
	}

	var datasetID int64
	var authorLinks, keywordLinks int
	err = i.withTx(ctx, rec.ref, func(tx *sql.Tx) error {
		q := `INSERT INTO datasets (
			origin_id, id_in_origin, doi, date_created, date_last_modified,
			date_last_crawled, file_number, download_number, view_number,
			license, url, title, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING dataset_id`
		err := tx.QueryRowContext(ctx, i.operator.Rebind(q),
			originID, rec.key.idInOrigin, rec.doi, rec.dateCreated,
			rec.dateLastModified, rec.dateLastCrawled, rec.fileNumber,
			rec.downloadNumber, rec.viewNumber, rec.license, rec.url,
			rec.title, rec.description,
		).Scan(&datasetID)
		if err != nil {
			return err
		}

		for _, id := range authorIDs {
			n, err := i.exec(ctx, tx, `INSERT INTO datasets_authors_link
				(dataset_id, author_id) VALUES (?, ?)
				ON CONFLICT DO NOTHING`, datasetID, id)
			if err != nil {
				return err
			}
			authorLinks += n
		}

		for _, id := range keywordIDs {
			n, err := i.exec(ctx, tx, `INSERT INTO datasets_keywords_link
				(dataset_id, keyword_id) VALUES (?, ?)
				ON CONFLICT DO NOTHING`, datasetID, id)
			if err != nil {
				return err
			}
			keywordLinks += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	i.datasets[rec.key] = datasetID
	i.sum.Inserted["datasets"]++
	i.sum.Inserted["datasets_authors_link"] += authorLinks
	i.sum.Inserted["datasets_keywords_link"] += keywordLinks
	return nil
}

func parseDataset(row iotable.Row) (datasetRecord, error) {
	key := datasetKey{
		origin:     iotable.Text(row.Get("dataset_origin")),
		idInOrigin: iotable.Text(row.Get("id_in_origin")),
	}
	rec := datasetRecord{
		ref: recordRef{table: "datasets", line: row.Line, key: key.String()},
		key: key,
	}

	if row.Err != nil {
		return rec, MalformedRecordError(rec.ref, row.Err)
	}
	if key.origin == "" {
		return rec, ReferentialError(rec.ref, "empty dataset origin")
	}
	if key.idInOrigin == "" {
		return rec, MalformedRecordError(rec.ref, errors.New("empty id_in_origin"))
	}

	var err error
	var errs []error
	rec.dateCreated, err = dateValue(row.Get("date_created"), catalog.DateLayout)
	errs = append(errs, err)
	rec.dateLastModified, err = dateValue(row.Get("date_last_modified"), catalog.DateLayout)
	errs = append(errs, err)
	rec.dateLastCrawled, err = dateValue(row.Get("date_last_crawled"), catalog.CrawlTimeLayout)
	errs = append(errs, err)
	rec.fileNumber, err = iotable.Int(row.Get("file_number"))
	errs = append(errs, err)
	rec.downloadNumber, err = iotable.Int(row.Get("download_number"))
	errs = append(errs, err)
	rec.viewNumber, err = iotable.Int(row.Get("view_number"))
	errs = append(errs, err)
	if err = errors.Join(errs...); err != nil {
		return rec, MalformedRecordError(rec.ref, err)
	}

	rec.doi = iotable.Text(row.Get("doi"))
	rec.license = iotable.Text(row.Get("license"))
	rec.url = iotable.Text(row.Get("url"))
	rec.title = iotable.Text(row.Get("title"))
	rec.description = iotable.Text(row.Get("description"))
	rec.authors = catalog.SplitAuthors(row.Get("author"))
	rec.keywords = catalog.SplitKeywords(row.Get("keywords"))
	return rec, nil
}

// dateValue validates a date and returns it in its normalized text
// form, or nil for missing values.
func dateValue(s, layout string) (any, error) {
	t, err := iotable.Time(s, layout)
	if err != nil || !t.Valid {
		return nil, err
	}
	return t.Time.Format(layout), nil
}
