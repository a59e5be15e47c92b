package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultWorkerCount is the number of background executor goroutines.
	DefaultWorkerCount = 4

	// DefaultQueueCapacity bounds how many submitted tasks may wait for an
	// executor. Submissions beyond it are rejected with a capacity error.
	DefaultQueueCapacity = 64

	// DefaultPageLimit is the page size when the client supplies none.
	DefaultPageLimit = 20

	// MaxPageLimit caps the page size a client may request.
	MaxPageLimit = 100
)
