package entity

// Mode selects where the plugin package comes from.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeMarket Mode = "market"
	ModeGithub Mode = "github"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeLocal, ModeMarket, ModeGithub}

func (m Mode) Valid() bool {
	switch m {
	case ModeLocal, ModeMarket, ModeGithub:
		return true
	}
	return false
}

// Execution selects where the server runs the repackaging step.
type Execution string

const (
	ExecutionLocal     Execution = "local"
	ExecutionDocker    Execution = "docker"
	ExecutionNewDocker Execution = "new-docker"
)

// Executions lists every execution strategy in display order.
var Executions = []Execution{ExecutionLocal, ExecutionDocker, ExecutionNewDocker}

func (e Execution) Valid() bool {
	switch e {
	case ExecutionLocal, ExecutionDocker, ExecutionNewDocker:
		return true
	}
	return false
}

const (
	DefaultMode      = ModeLocal
	DefaultExecution = ExecutionDocker
)

const (
	// PackageExtension is the only file suffix the server accepts.
	PackageExtension = ".difypkg"
	// OfflineSuffix marks a repackaged artifact.
	OfflineSuffix = "-offline" + PackageExtension
	// MaxUploadSize is 100 MiB.
	MaxUploadSize int64 = 100 * 1024 * 1024
)
