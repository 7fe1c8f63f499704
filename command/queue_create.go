package command

import (
	"time"

	"github.com/gallus-engine/gallus/internal/utils"
)

// CreateFlags indicate specific queue behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = utils.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateExternallySynchronized ensures that this queue will not be synchronized internally.
	// The consumer must guarantee the queue and its lists are used from only one thread at a time.
	CreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
}

const (
	// defaultWaitTimeout is the value that is used as WaitTimeout when none is provided via
	// CreateOptions
	defaultWaitTimeout = 10 * time.Second
)

// CreateOptions contains optional settings when creating a queue
type CreateOptions struct {
	// Flags indicates specific queue behaviors to activate or deactivate
	Flags CreateFlags
	// WaitTimeout bounds how long WaitForFenceValue blocks before failing with ErrFenceTimeout.
	// If 0, 10 seconds is used.
	WaitTimeout time.Duration
	// Label names the queue in log output
	Label string
}

func (o CreateOptions) waitTimeout() time.Duration {
	if o.WaitTimeout <= 0 {
		return defaultWaitTimeout
	}

	return o.WaitTimeout
}
