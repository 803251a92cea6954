// Package catalog holds the vocabulary of the MD dataset catalog that
// is shared by the cleaner and the ingester: table layouts, dimension
// names, sentinel values for missing keys and the mapping of file types
// to extension tables.
package catalog

// Dimension is a controlled-vocabulary table. Its value is the table name.
type Dimension string

const (
	Origin       Dimension = "dataset_origins"
	FileType     Dimension = "file_types"
	Software     Dimension = "software"
	MoleculeType Dimension = "molecule_types"
	Thermostat   Dimension = "thermostats"
	Barostat     Dimension = "barostats"
	Integrator   Dimension = "integrators"
	Database     Dimension = "databases"
	Keyword      Dimension = "keywords"
)

// Dimensions lists dimension tables in the order they are resolved.
func Dimensions() []Dimension {
	return []Dimension{
		Origin, FileType, Software, Thermostat, Barostat,
		Integrator, MoleculeType, Database, Keyword,
	}
}

func (d Dimension) String() string {
	return string(d)
}

// Extension is the kind of type-specific table a file belongs to.
type Extension int

const (
	NoExtension Extension = iota
	Topology
	Parameter
	Trajectory
)

var extensionNames = map[Extension]string{
	NoExtension: "none",
	Topology:    "topology",
	Parameter:   "parameter",
	Trajectory:  "trajectory",
}

func (e Extension) String() string {
	return extensionNames[e]
}

// file types produced by GROMACS that have extension tables.
var fileTypeExtension = map[string]Extension{
	"gro": Topology,
	"mdp": Parameter,
	"xtc": Trajectory,
	"trr": Trajectory,
}

// ExtensionOf returns the extension table kind for a file type name.
// File types without attributes return NoExtension.
func ExtensionOf(fileType string) Extension {
	return fileTypeExtension[normalizeType(fileType)]
}

// FileTypesOf returns file types that are stored in a given extension
// table, in sorted order.
func FileTypesOf(ext Extension) []string {
	switch ext {
	case Topology:
		return []string{"gro"}
	case Parameter:
		return []string{"mdp"}
	case Trajectory:
		return []string{"trr", "xtc"}
	default:
		return nil
	}
}
