package catalog

// Layout describes a cleaned table: the file it is stored in and its
// columns in order.
type Layout struct {
	Name    string
	Columns []string
}

// File is the name of the CSV file that holds the table.
func (l Layout) File() string {
	return l.Name + ".csv"
}

var (
	DatasetsLayout = Layout{
		Name: "datasets",
		Columns: []string{
			"dataset_origin", "id_in_origin", "doi", "date_created",
			"date_last_modified", "date_last_crawled", "file_number",
			"download_number", "view_number", "license", "url", "title",
			"author", "keywords", "description",
		},
	}

	FilesLayout = Layout{
		Name: "files",
		Columns: []string{
			"dataset_origin", "id_in_origin", "name", "file_type",
			"size_in_bytes", "md5", "url", "software_name",
			"software_version", "is_from_zip_file", "parent_zip_file",
		},
	}

	TopologyLayout = Layout{
		Name: "topology_files",
		Columns: []string{
			"dataset_origin", "id_in_origin", "name", "atom_number",
			"has_protein", "has_nucleic", "has_lipid", "has_glucid",
			"has_water_ion",
		},
	}

	ParameterLayout = Layout{
		Name: "parameter_files",
		Columns: []string{
			"dataset_origin", "id_in_origin", "name", "dt", "nsteps",
			"temperature", "thermostat", "barostat", "integrator",
		},
	}

	TrajectoryLayout = Layout{
		Name: "trajectory_files",
		Columns: []string{
			"dataset_origin", "id_in_origin", "name", "atom_number",
			"frame_number",
		},
	}

	MoleculesLayout = Layout{
		Name: "molecules",
		Columns: []string{
			"dataset_origin", "id_in_origin", "file_name", "name",
			"formula", "sequence", "molecule_type", "db_name",
			"id_in_external_db",
		},
	}
)

// Layouts returns all cleaned tables in ingestion order.
func Layouts() []Layout {
	return []Layout{
		DatasetsLayout, FilesLayout, TopologyLayout,
		ParameterLayout, TrajectoryLayout, MoleculesLayout,
	}
}

const (
	// DateLayout is the format of creation and modification dates.
	DateLayout = "2006-01-02"
	// CrawlTimeLayout is the format of the last crawl time.
	CrawlTimeLayout = "2006-01-02T15:04:05"
)
