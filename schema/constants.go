package schema

// Custom string types for type safety.
type (
	// DatabaseBackend represents the relational backend serving queries.
	DatabaseBackend string

	// GroupDim is one grouping dimension of the edit retrieval.
	GroupDim string

	// OrderMode selects the sort column of the edit retrieval.
	OrderMode string
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgres"
)

// All grouping dimensions supported.
const (
	GroupUser       GroupDim = "user" // default
	GroupPage       GroupDim = "page"
	GroupDate       GroupDim = "date"
	GroupAssessment GroupDim = "assessment"
)

// All order modes supported.
const (
	OrderCount OrderMode = "count" // default, sorts by edit count
	OrderDate  OrderMode = "date"  // sorts by wiki week
)

// Default values for configuration.
const (
	DefaultListenAddr     = ":8999"
	DefaultSQLitePath     = "reflex.db"
	DefaultEditLimit      = 1000
	DefaultRevertLimit    = 20
	DefaultActivePages    = 10
	DefaultProjectsLimit  = 25
	DefaultRequestTimeout = 30 // seconds
)
