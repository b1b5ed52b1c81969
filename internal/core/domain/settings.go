package domain

import "strings"

// Configuration keys understood by the core. Keys are grouped by prefix:
// core.* configures the run itself, extraction.* and analysis.* are handed
// to the respective manager and plug-in.
const (
	KeyOS               = "core.os"
	KeyVCS              = "core.version_control_system"
	KeyLogLevel         = "core.log_level"
	KeyQueueMaxElements = "core.commit_queue.max_elements"

	KeyExtractor  = "extraction.extractor"
	KeyInput      = "extraction.input"
	KeyCommitList = "extraction.commit_list"
	KeyCache      = "extraction.cache"
	KeyReuse      = "extraction.reuse"

	KeyAnalyzer = "analysis.analyzer"
	KeyOutput   = "analysis.output"
)

// Key prefixes.
const (
	PrefixCore       = "core."
	PrefixExtraction = "extraction."
	PrefixAnalysis   = "analysis."
)

// Queue capacity bounds.
const (
	MinQueueElements     = 1
	MaxQueueElements     = 100000
	DefaultQueueElements = 10
)

// DefaultLogLevel is the standard log level.
const DefaultLogLevel = 1

// MemoryOutput selects the in-memory result store instead of an output directory.
const MemoryOutput = ":memory:"

// Properties is a flat set of configuration values for one manager and its plug-in.
type Properties map[string]string

// Get returns the trimmed value for key, or "" if it is not set.
func (p Properties) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// Has reports whether key is set to a non-blank value.
func (p Properties) Has(key string) bool {
	return p.Get(key) != ""
}

// Settings is a validated run configuration.
type Settings struct {
	// OS is the operating system name plug-ins are checked against.
	OS string

	// VCS is the version control system plug-ins are checked against.
	VCS string

	// LogLevel is 0 (silent), 1 (standard) or 2 (debug).
	LogLevel int

	// QueueMaxElements is the capacity of the commit queue.
	QueueMaxElements int

	// Extraction holds all extraction.* properties.
	Extraction Properties

	// Analysis holds all analysis.* properties.
	Analysis Properties

	// CommitText is the single commit given in interactive mode.
	// Empty unless running interactively.
	CommitText string
}
